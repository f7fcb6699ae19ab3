package api

import (
	"strings"
	"testing"
)

func TestCodec(t *testing.T) {
	c := Codec{}
	if c.Name() != "json" {
		t.Errorf("Name() = %q, want json", c.Name())
	}

	data, err := c.Marshal(&SetBillAmountRequest{SessionId: "abc", BillAmount: "12.50"})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !strings.Contains(string(data), `"billAmount":"12.50"`) {
		t.Errorf("unexpected JSON %s", data)
	}

	var req SelectTipRequest
	if err := c.Unmarshal(nil, &req); err != nil {
		t.Errorf("Unmarshal of empty body failed: %v", err)
	}
	if err := c.Unmarshal([]byte(`{"sessionId":"s","tipPercentage":"20"}`), &req); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if req.GetSessionId() != "s" || req.TipPercentage != "20" {
		t.Errorf("unexpected request %+v", req)
	}
	if err := c.Unmarshal([]byte(`{`), &req); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestGettersTolerateNil(t *testing.T) {
	var req *ResetRequest
	if req.GetSessionId() != "" {
		t.Error("expected empty session id from nil request")
	}
}
