package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/tipsplit/internal/calculator"
	"github.com/mmynk/tipsplit/internal/config"
	"github.com/mmynk/tipsplit/internal/middleware"
	"github.com/mmynk/tipsplit/internal/realtime"
	"github.com/mmynk/tipsplit/internal/service"
	"github.com/mmynk/tipsplit/internal/storage/memory"
	pb "github.com/mmynk/tipsplit/pkg/api"
	"github.com/mmynk/tipsplit/pkg/api/apiconnect"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCalcCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    []string
		wantErr bool
	}{
		{
			name: "defaults",
			args: []string{"calc", "--bill", "40"},
			want: []string{"Tip Amount: $6.00", "Total: $46.00"},
		},
		{
			name: "split",
			args: []string{"calc", "--bill", "100", "--tip", "20", "--people", "4"},
			want: []string{"Tip Amount: $20.00", "Total: $120.00", "Per Person: $30.00"},
		},
		{
			name: "negative strict",
			args: []string{"calc", "--bill", "-5"},
			want: []string{"Error: " + calculator.NegativeBillMessage, "Total: $0.00"},
		},
		{
			name: "negative lenient",
			args: []string{"calc", "--bill", "-5", "--lenient"},
			want: []string{"Total: $-5.75"},
		},
		{
			name:    "invalid tip",
			args:    []string{"calc", "--bill", "10", "--tip", "18"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCmd(t, tt.args...)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Execute failed: %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("Expected output to contain %q, got:\n%s", w, out)
				}
			}
		})
	}
}

func TestReplCommand(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetIn(strings.NewReader("bill 20\ntip 10\nquit\n"))
	root.SetArgs([]string{"repl"})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !strings.Contains(out.String(), "Total: $22.00") {
		t.Errorf("Expected total $22.00, got:\n%s", out.String())
	}
}

func setupTestHandler(t *testing.T) *httptest.Server {
	t.Helper()
	store := memory.New()
	cfg := &config.Config{
		AllowedOrigins: []string{"http://example.com"},
		Mode:           calculator.Strict,
	}
	server := httptest.NewServer(newHandler(cfg, service.NewSessions(store, realtime.NewHub(nil))))
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})
	return server
}

func TestHandler_Routes(t *testing.T) {
	server := setupTestHandler(t)

	for _, path := range []string{"/", "/healthz", "/metrics"} {
		resp, err := http.Get(server.URL + path)
		if err != nil {
			t.Fatalf("GET %s failed: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s: expected 200, got %d", path, resp.StatusCode)
		}
	}
}

func TestHandler_ConnectWithHeaderSession(t *testing.T) {
	server := setupTestHandler(t)
	client := apiconnect.NewCalculatorServiceClient(http.DefaultClient, server.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	created, err := client.CreateSession(ctx, connect.NewRequest(&pb.CreateSessionRequest{}))
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	req := connect.NewRequest(&pb.SetBillAmountRequest{BillAmount: "60"})
	req.Header().Set(middleware.SessionHeader, created.Msg.Session.Id)
	resp, err := client.SetBillAmount(ctx, req)
	if err != nil {
		t.Fatalf("SetBillAmount failed: %v", err)
	}
	if resp.Msg.State.Display.Total != "$69.00" {
		t.Errorf("Expected total $69.00, got %s", resp.Msg.State.Display.Total)
	}

	// The metrics page reflects the event.
	mresp, err := http.Get(server.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics failed: %v", err)
	}
	body, _ := io.ReadAll(mresp.Body)
	mresp.Body.Close()
	if !strings.Contains(string(body), `tipsplit_events_total{kind="bill"}`) {
		t.Error("Expected bill events in metrics output")
	}
}

func TestHandler_CORSPreflight(t *testing.T) {
	server := setupTestHandler(t)

	req, _ := http.NewRequest(http.MethodOptions, server.URL+apiconnect.CalculatorServiceSetBillAmountProcedure, nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "Content-Type, Tipsplit-Session")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("preflight failed: %v", err)
	}
	resp.Body.Close()
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "http://example.com" {
		t.Errorf("Expected allowed origin, got %q", got)
	}
}
