package status

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ServerID identifies a backend server. The wire may carry it as a JSON
// string or a number; both are kept in their textual form.
type ServerID string

// UnmarshalJSON accepts a JSON string or number.
func (id *ServerID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return fmt.Errorf("server id is null")
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ServerID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("server id must be a string or number: %w", err)
	}
	*id = ServerID(n.String())
	return nil
}

// Less orders ids naturally: digit runs compare by numeric value, so
// "server-2" sorts before "server-10".
func (id ServerID) Less(other ServerID) bool {
	a, b := string(id), string(other)
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if isDigit(a[i]) && isDigit(b[j]) {
			ei, ej := digitRunEnd(a, i), digitRunEnd(b, j)
			na, nb := strings.TrimLeft(a[i:ei], "0"), strings.TrimLeft(b[j:ej], "0")
			if len(na) != len(nb) {
				return len(na) < len(nb)
			}
			if na != nb {
				return na < nb
			}
			i, j = ei, ej
			continue
		}
		if a[i] != b[j] {
			return a[i] < b[j]
		}
		i++
		j++
	}
	if len(a)-i != len(b)-j {
		return len(a)-i < len(b)-j
	}
	return a < b
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func digitRunEnd(s string, i int) int {
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	return i
}

// ServerRecord is one backend server as reported by the status endpoint.
type ServerRecord struct {
	ID                ServerID `json:"id" yaml:"id" toml:"id"`
	Host              string   `json:"host" yaml:"host" toml:"host"`
	Port              int      `json:"port" yaml:"port" toml:"port"`
	Healthy           bool     `json:"healthy" yaml:"healthy" toml:"healthy"`
	Requests          int64    `json:"requests" yaml:"requests" toml:"requests"`
	ActiveConnections int64    `json:"active_connections" yaml:"active_connections" toml:"active_connections"`
	CPUUsage          float64  `json:"cpu_usage" yaml:"cpu_usage" toml:"cpu_usage"`
	MemUsage          float64  `json:"mem_usage" yaml:"mem_usage" toml:"mem_usage"`
}

// Address returns host:port for display.
func (r ServerRecord) Address() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// Snapshot is the ordered set of servers from one successful fetch.
// Order is preserved exactly as delivered.
type Snapshot []ServerRecord

// Clone returns an independent copy.
func (s Snapshot) Clone() Snapshot {
	if s == nil {
		return Snapshot{}
	}
	out := make(Snapshot, len(s))
	copy(out, s)
	return out
}

// HealthyCount returns how many servers report healthy.
func (s Snapshot) HealthyCount() int {
	n := 0
	for _, r := range s {
		if r.Healthy {
			n++
		}
	}
	return n
}

// statusPayload is the body of GET /api/status. Servers is a pointer so a
// missing key can be told apart from an empty list.
type statusPayload struct {
	Servers *[]wireRecord `json:"servers"`
}

// wireRecord is a ServerRecord as decoded off the wire. Pointer fields let
// a missing key be told apart from a zero value.
type wireRecord struct {
	ID                *ServerID `json:"id"`
	Host              *string   `json:"host"`
	Port              *int      `json:"port"`
	Healthy           *bool     `json:"healthy"`
	Requests          *int64    `json:"requests"`
	ActiveConnections *int64    `json:"active_connections"`
	CPUUsage          *float64  `json:"cpu_usage"`
	MemUsage          *float64  `json:"mem_usage"`
}

// record converts w, failing on the first missing field.
func (w wireRecord) record() (ServerRecord, error) {
	switch {
	case w.ID == nil:
		return ServerRecord{}, fmt.Errorf("is missing id")
	case w.Host == nil:
		return ServerRecord{}, fmt.Errorf("is missing host")
	case w.Port == nil:
		return ServerRecord{}, fmt.Errorf("is missing port")
	case w.Healthy == nil:
		return ServerRecord{}, fmt.Errorf("is missing healthy")
	case w.Requests == nil:
		return ServerRecord{}, fmt.Errorf("is missing requests")
	case w.ActiveConnections == nil:
		return ServerRecord{}, fmt.Errorf("is missing active_connections")
	case w.CPUUsage == nil:
		return ServerRecord{}, fmt.Errorf("is missing cpu_usage")
	case w.MemUsage == nil:
		return ServerRecord{}, fmt.Errorf("is missing mem_usage")
	}
	return ServerRecord{
		ID:                *w.ID,
		Host:              *w.Host,
		Port:              *w.Port,
		Healthy:           *w.Healthy,
		Requests:          *w.Requests,
		ActiveConnections: *w.ActiveConnections,
		CPUUsage:          *w.CPUUsage,
		MemUsage:          *w.MemUsage,
	}, nil
}
