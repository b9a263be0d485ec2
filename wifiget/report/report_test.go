package report

import (
	"encoding/json"
	"errors"
	"io"
	"net/netip"
	"testing"

	"github.com/harveysanders/picoweather/wifiget/httpget"
)

func TestSplitBroker(t *testing.T) {
	tests := []struct {
		addr string
		host string
		port uint16
		ok   bool
	}{
		{"broker.local:8883", "broker.local", 8883, true},
		{"mqtt:1883", "mqtt", 1883, true},
		{"broker.local", "", 0, false},
		{":1883", "", 0, false},
		{"broker:", "", 0, false},
		{"broker:0", "", 0, false},
		{"broker:65536", "", 0, false},
		{"broker:80a", "", 0, false},
		{"fd00::9:1883", "", 0, false},
	}
	for _, tt := range tests {
		host, port, err := splitBroker(tt.addr)
		if (err == nil) != tt.ok {
			t.Errorf("%q: err = %v", tt.addr, err)
			continue
		}
		if host != tt.host || port != tt.port {
			t.Errorf("%q: got %q %d", tt.addr, host, port)
		}
	}
}

type recordingDialer struct{ looked []string }

func (d *recordingDialer) LookupIP(host string) (netip.Addr, error) {
	d.looked = append(d.looked, host)
	return netip.MustParseAddr("10.0.0.7"), nil
}

func (d *recordingDialer) DialTCP(netip.AddrPort) (io.ReadWriteCloser, error) {
	return nil, errors.New("unused")
}

func TestResolveBroker(t *testing.T) {
	tests := []struct {
		addr   string
		want   string
		lookup bool
	}{
		{"10.0.0.9:1883", "10.0.0.9:1883", false},
		{"[fd00::9]:1883", "[fd00::9]:1883", false},
		{"broker.local:1883", "10.0.0.7:1883", true},
	}
	for _, tt := range tests {
		d := new(recordingDialer)
		got, err := resolveBroker(d, tt.addr)
		if err != nil {
			t.Errorf("%q: %v", tt.addr, err)
			continue
		}
		if got.String() != tt.want {
			t.Errorf("%q: got %s, want %s", tt.addr, got, tt.want)
		}
		if (len(d.looked) > 0) != tt.lookup {
			t.Errorf("%q: lookups = %q", tt.addr, d.looked)
		}
	}
	if _, err := resolveBroker(new(recordingDialer), "10.0.0.9:0"); err == nil {
		t.Error("port 0 accepted")
	}
}

func TestSummaryJSON(t *testing.T) {
	s := NewSummary(httpget.DefaultHost, httpget.DefaultPath, httpget.Response{
		StatusCode: 200,
		Status:     "200 OK",
		Raw:        make([]byte, 120),
	})
	b, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"host":"cctest.free.beeceptor.com","path":"/my/api/path","status_code":200,"status":"200 OK","bytes":120}`
	if string(b) != want {
		t.Errorf("json = %s", b)
	}
}

type failingDialer struct{ dialed bool }

func (d *failingDialer) LookupIP(string) (netip.Addr, error) {
	return netip.MustParseAddr("10.0.0.9"), nil
}

func (d *failingDialer) DialTCP(netip.AddrPort) (io.ReadWriteCloser, error) {
	d.dialed = true
	return nil, errors.New("refused")
}

func TestPublishRejectsBadAddr(t *testing.T) {
	d := new(failingDialer)
	p := Publisher{ID: "test"}
	if err := p.Publish(d, "10.0.0.9", Summary{}); err == nil {
		t.Fatal("missing port accepted")
	}
	if d.dialed {
		t.Error("dialed with a bad address")
	}
	if err := p.Publish(d, "10.0.0.9:1883", Summary{}); err == nil {
		t.Fatal("dial error swallowed")
	}
}
