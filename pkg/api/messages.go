// Package api defines the wire messages of the tipsplit.v1 Connect service.
// Messages are plain Go structs carried by the JSON codec in codec.go.
package api

// State is the observable state of one calculator.
type State struct {
	BillAmount      string  `json:"billAmount"`
	TipPercentage   string  `json:"tipPercentage"`
	NumberOfPeople  string  `json:"numberOfPeople"`
	TipAmount       float64 `json:"tipAmount"`
	TotalAmount     float64 `json:"totalAmount"`
	PerPersonAmount float64 `json:"perPersonAmount"`
	Error           string  `json:"error,omitempty"`
	ShowPerPerson   bool    `json:"showPerPerson"`
	ResetEnabled    bool    `json:"resetEnabled"`
	Version         uint64  `json:"version"`

	// Display carries the amounts formatted for the results panel.
	Display *Display `json:"display,omitempty"`
}

// Display holds "$0.00" strings. PerPerson is empty when the line is hidden.
type Display struct {
	TipAmount string `json:"tipAmount"`
	Total     string `json:"total"`
	PerPerson string `json:"perPerson,omitempty"`
}

// Session describes a mounted calculator.
type Session struct {
	Id        string `json:"id"`
	Mode      string `json:"mode"`
	CreatedAt int64  `json:"createdAt"`
	State     *State `json:"state"`
}

type CreateSessionRequest struct {
	// Mode is "strict" (default) or "lenient".
	Mode string `json:"mode,omitempty"`
}

type CreateSessionResponse struct {
	Session *Session `json:"session"`
}

type CloseSessionRequest struct {
	SessionId string `json:"sessionId"`
}

type CloseSessionResponse struct{}

type GetStateRequest struct {
	SessionId string `json:"sessionId"`
}

type SetBillAmountRequest struct {
	SessionId  string `json:"sessionId"`
	BillAmount string `json:"billAmount"`
}

type SelectTipRequest struct {
	SessionId     string `json:"sessionId"`
	TipPercentage string `json:"tipPercentage"`
}

type SetNumberOfPeopleRequest struct {
	SessionId      string `json:"sessionId"`
	NumberOfPeople string `json:"numberOfPeople"`
}

type ResetRequest struct {
	SessionId string `json:"sessionId"`
}

// StateResponse is returned by every session event.
type StateResponse struct {
	SessionId string `json:"sessionId"`
	State     *State `json:"state"`
}

// CalculateRequest runs the derivation once without a session.
type CalculateRequest struct {
	Mode           string `json:"mode,omitempty"`
	BillAmount     string `json:"billAmount"`
	TipPercentage  string `json:"tipPercentage"`
	NumberOfPeople string `json:"numberOfPeople"`
}

type CalculateResponse struct {
	State *State `json:"state"`
}

// Getters tolerate nil receivers, matching generated message types.

func (x *GetStateRequest) GetSessionId() string {
	if x != nil {
		return x.SessionId
	}
	return ""
}

func (x *SetBillAmountRequest) GetSessionId() string {
	if x != nil {
		return x.SessionId
	}
	return ""
}

func (x *SelectTipRequest) GetSessionId() string {
	if x != nil {
		return x.SessionId
	}
	return ""
}

func (x *SetNumberOfPeopleRequest) GetSessionId() string {
	if x != nil {
		return x.SessionId
	}
	return ""
}

func (x *ResetRequest) GetSessionId() string {
	if x != nil {
		return x.SessionId
	}
	return ""
}

func (x *CloseSessionRequest) GetSessionId() string {
	if x != nil {
		return x.SessionId
	}
	return ""
}
