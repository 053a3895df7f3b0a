package model

import (
	"net/netip"
	"strconv"
	"time"
)

// Target is one (host, port) pair to probe. It is comparable and used as a
// map key by the result collector.
type Target struct {
	Host netip.Addr `json:"host"`
	Port uint16     `json:"port"`
}

// Address returns the dialable "host:port" form, bracketing IPv6 hosts.
func (t Target) Address() string {
	return netip.AddrPortFrom(t.Host, t.Port).String()
}

func (t Target) String() string {
	return t.Address()
}

// Status classifies the result of a single probe.
type Status int

const (
	StatusOpen Status = iota
	StatusClosed
	StatusTimeout
	StatusError
)

var statusNames = [...]string{
	StatusOpen:    "open",
	StatusClosed:  "closed",
	StatusTimeout: "timeout",
	StatusError:   "error",
}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return "status(" + strconv.Itoa(int(s)) + ")"
	}
	return statusNames[s]
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Outcome is the tagged result for one target. Detail is only set for
// StatusError.
type Outcome struct {
	Status Status `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func Open() Outcome    { return Outcome{Status: StatusOpen} }
func Closed() Outcome  { return Outcome{Status: StatusClosed} }
func Timeout() Outcome { return Outcome{Status: StatusTimeout} }

func Failed(detail string) Outcome {
	return Outcome{Status: StatusError, Detail: detail}
}

func (o Outcome) String() string {
	if o.Status == StatusError && o.Detail != "" {
		return o.Status.String() + ": " + o.Detail
	}
	return o.Status.String()
}

type ScanRun struct {
	ID         string    `json:"id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Hosts        string        `json:"hosts"`
	PortsSpec    string        `json:"ports_spec"`
	TargetsCount int           `json:"targets_count"`
	Workers      int           `json:"workers"`
	Timeout      time.Duration `json:"timeout"`

	Open     int `json:"open"`
	Closed   int `json:"closed"`
	TimedOut int `json:"timed_out"`
	Errors   int `json:"errors"`

	Complete bool   `json:"complete"`
	Notes    string `json:"notes,omitempty"`
}
