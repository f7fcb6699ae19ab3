package web

import (
	"html/template"

	"github.com/mmynk/tipsplit/internal/calculator"
	"github.com/mmynk/tipsplit/internal/display"
	"github.com/mmynk/tipsplit/internal/models"
)

type tipChoice struct {
	Value   string
	Checked bool
}

// pageData feeds pageHTML.
type pageData struct {
	State models.Snapshot
	View  display.View
	Tips  []tipChoice
}

func newPageData(snap models.Snapshot) pageData {
	tips := make([]tipChoice, len(calculator.TipPercentages))
	for i, p := range calculator.TipPercentages {
		tips[i] = tipChoice{Value: p, Checked: p == snap.TipPercentage}
	}
	return pageData{
		State: snap,
		View:  display.Render(snap),
		Tips:  tips,
	}
}

var pageTemplate = template.Must(template.New("page").Parse(pageHTML))

const pageHTML = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Tip Calculator</title>
  <style>
    body { font-family: system-ui, sans-serif; background: linear-gradient(#f1f5f9, #e2e8f0); min-height: 100vh; display: flex; align-items: center; justify-content: center; margin: 0; }
    .card { background: #fff; border-radius: 12px; box-shadow: 0 10px 25px rgba(0,0,0,.1); padding: 24px; width: 100%; max-width: 420px; }
    .field { margin-bottom: 20px; }
    label { display: block; font-weight: 600; margin-bottom: 6px; }
    input[type=number] { width: 100%; box-sizing: border-box; padding: 8px; }
    .tips { display: grid; grid-template-columns: repeat(4, 1fr); gap: 8px; }
    .tips label { font-weight: 400; border: 1px solid #cbd5e1; border-radius: 6px; padding: 8px; text-align: center; cursor: pointer; }
    .error { color: #ef4444; font-size: .875rem; margin-top: 4px; }
    .results { background: #f1f5f9; border-radius: 8px; padding: 16px; }
    .row { display: flex; justify-content: space-between; margin: 6px 0; }
    .per-person { border-top: 1px solid #cbd5e1; padding-top: 8px; }
    .reset { background: #dc2626; color: #fff; border: 0; border-radius: 6px; padding: 8px 16px; margin-top: 16px; cursor: pointer; }
  </style>
</head>
<body>
<div class="card">
  <h1>Tip Calculator</h1>
  <p>Calculate your tip and split the bill easily.</p>

  <form class="field" method="post" action="/bill">
    <label for="bill-amount">Bill Amount</label>
    $ <input id="bill-amount" name="bill_amount" type="number" min="0" step="0.01" placeholder="0.00" value="{{.State.BillAmount}}" data-event="bill">
    <p class="error" id="error"{{if not .View.Error}} hidden{{end}}>{{.View.Error}}</p>
  </form>

  <form class="field" method="post" action="/tip">
    <label>Tip Percentage</label>
    <div class="tips">
      {{range .Tips}}
      <label for="tip-{{.Value}}"><input id="tip-{{.Value}}" type="radio" name="tip_percentage" value="{{.Value}}"{{if .Checked}} checked{{end}} data-event="tip"> {{.Value}}%</label>
      {{end}}
    </div>
  </form>

  <form class="field" method="post" action="/people">
    <label for="number-of-people">Number of People</label>
    <input id="number-of-people" name="number_of_people" type="number" min="1" placeholder="1" value="{{.State.NumberOfPeople}}" data-event="people">
  </form>

  <div class="results">
    <div class="row"><span>Tip Amount:</span><strong id="tip-amount">{{.View.TipAmount}}</strong></div>
    <div class="row"><span>Total:</span><strong id="total">{{.View.Total}}</strong></div>
    <div class="row per-person" id="per-person-row"{{if not .View.ShowPerPerson}} hidden{{end}}><span>Per Person:</span><strong id="per-person">{{.View.PerPerson}}</strong></div>
  </div>

  {{if .View.ResetEnabled}}
  <form method="post" action="/reset"><button class="reset" type="submit">Reset</button></form>
  {{end}}

  <noscript><p>Press Enter in a field to update.</p></noscript>
</div>
<script>
(function () {
  var proto = location.protocol === "https:" ? "wss://" : "ws://";
  var ws = new WebSocket(proto + location.host + "/ws");
  function render(s) {
    document.getElementById("tip-amount").textContent = s.display.tipAmount;
    document.getElementById("total").textContent = s.display.total;
    document.getElementById("per-person").textContent = s.display.perPerson || "";
    document.getElementById("per-person-row").hidden = !s.showPerPerson;
    var err = document.getElementById("error");
    err.textContent = s.error || "";
    err.hidden = !s.error;
  }
  ws.onmessage = function (e) { render(JSON.parse(e.data)); };
  document.querySelectorAll("[data-event]").forEach(function (el) {
    var evt = el.type === "radio" ? "change" : "input";
    el.addEventListener(evt, function () {
      if (ws.readyState === WebSocket.OPEN) {
        ws.send(JSON.stringify({event: el.dataset.event, value: el.value}));
      } else {
        el.form.submit();
      }
    });
  });
})();
</script>
</body>
</html>
`
