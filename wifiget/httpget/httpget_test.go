package httpget

import (
	"bytes"
	"errors"
	"io"
	"net/netip"
	"testing"
	"time"
)

type fakeStation struct {
	joinErr  error
	leaveErr error
	joined   bool
	left     bool
}

func (s *fakeStation) Join() error {
	s.joined = s.joinErr == nil
	return s.joinErr
}

func (s *fakeStation) Leave() error {
	s.left = true
	return s.leaveErr
}

type fakeConn struct {
	written  bytes.Buffer
	reply    []byte
	shortBy  int
	writeErr error
	readErr  error
	closed   bool
}

func (c *fakeConn) Write(b []byte) (int, error) {
	if c.writeErr != nil {
		return 0, c.writeErr
	}
	c.written.Write(b[:len(b)-c.shortBy])
	return len(b) - c.shortBy, nil
}

func (c *fakeConn) Read(b []byte) (int, error) {
	if c.readErr != nil {
		return 0, c.readErr
	}
	n := copy(b, c.reply)
	return n, nil
}

func (c *fakeConn) Close() error {
	c.closed = true
	return nil
}

type fakeDialer struct {
	addr      netip.Addr
	lookupErr error
	dialErr   error
	conn      *fakeConn
	host      string
	dialed    netip.AddrPort
}

func (d *fakeDialer) LookupIP(host string) (netip.Addr, error) {
	d.host = host
	return d.addr, d.lookupErr
}

func (d *fakeDialer) DialTCP(addr netip.AddrPort) (io.ReadWriteCloser, error) {
	d.dialed = addr
	if d.dialErr != nil {
		return nil, d.dialErr
	}
	return d.conn, nil
}

const okReply = "HTTP/1.1 200 OK\r\nContent-Type: application/json\r\n\r\n{\"hello\":\"world\"}"

func newFakes() (*fakeStation, *fakeDialer) {
	return &fakeStation{}, &fakeDialer{
		addr: netip.MustParseAddr("52.20.0.9"),
		conn: &fakeConn{reply: []byte(okReply)},
	}
}

func TestBuildRequest(t *testing.T) {
	got := string(BuildRequest(nil, DefaultHost, DefaultPath))
	want := "GET /my/api/path HTTP/1.1\r\nHost:cctest.free.beeceptor.com\r\nAccept: */*\r\n\r\n"
	if got != want {
		t.Errorf("request = %q, want %q", got, want)
	}
}

func TestFetch(t *testing.T) {
	st, d := newFakes()
	var steps []Step
	resp, err := Fetch(st, d, Config{OnStep: func(s Step) { steps = append(steps, s) }})
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 || resp.Status != "200 OK" || resp.Proto != "HTTP/1.1" {
		t.Errorf("resp = %+v", resp)
	}
	if string(resp.Raw) != okReply {
		t.Errorf("raw = %q", resp.Raw)
	}
	if d.host != DefaultHost {
		t.Errorf("resolved %q", d.host)
	}
	if d.dialed != netip.MustParseAddrPort("52.20.0.9:80") {
		t.Errorf("dialed %s", d.dialed)
	}
	if got := d.conn.written.String(); got != string(BuildRequest(nil, DefaultHost, DefaultPath)) {
		t.Errorf("sent %q", got)
	}
	if !d.conn.closed || !st.left {
		t.Errorf("closed=%v left=%v", d.conn.closed, st.left)
	}
	want := []Step{StepJoin, StepResolve, StepConnect, StepSend, StepRecv, StepClose, StepLeave}
	if len(steps) != len(want) {
		t.Fatalf("steps = %v, want %v", steps, want)
	}
	for i := range want {
		if steps[i] != want[i] {
			t.Fatalf("steps = %v, want %v", steps, want)
		}
	}
}

func TestFetchRecvBufferBounded(t *testing.T) {
	st, d := newFakes()
	d.conn.reply = append([]byte(okReply), bytes.Repeat([]byte("x"), 1000)...)
	resp, err := Fetch(st, d, Config{})
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Raw) != DefaultRecvBufSize {
		t.Errorf("read %d bytes, want %d", len(resp.Raw), DefaultRecvBufSize)
	}
}

func TestFetchFailures(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name     string
		setup    func(*fakeStation, *fakeDialer)
		step     Step
		sentinel error
		left     bool
	}{
		{"join", func(s *fakeStation, _ *fakeDialer) { s.joinErr = ErrNotStationMode }, StepJoin, ErrNotStationMode, false},
		{"resolve", func(_ *fakeStation, d *fakeDialer) { d.lookupErr = boom }, StepResolve, boom, true},
		{"connect", func(_ *fakeStation, d *fakeDialer) { d.dialErr = boom }, StepConnect, boom, true},
		{"send error", func(_ *fakeStation, d *fakeDialer) { d.conn.writeErr = boom }, StepSend, ErrSend, true},
		{"short send", func(_ *fakeStation, d *fakeDialer) { d.conn.shortBy = 3 }, StepSend, ErrSend, true},
		{"recv error", func(_ *fakeStation, d *fakeDialer) { d.conn.readErr = io.EOF }, StepRecv, ErrRecv, true},
		{"empty recv", func(_ *fakeStation, d *fakeDialer) { d.conn.reply = nil }, StepRecv, ErrRecv, true},
		{"garbage", func(_ *fakeStation, d *fakeDialer) { d.conn.reply = []byte("SSH-2.0-OpenSSH\r\n") }, StepRecv, ErrInvalidResponse, true},
		{"leave", func(s *fakeStation, _ *fakeDialer) { s.leaveErr = boom }, StepLeave, boom, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, d := newFakes()
			tt.setup(st, d)
			_, err := Fetch(st, d, Config{})
			if !errors.Is(err, tt.sentinel) {
				t.Fatalf("err = %v, want %v", err, tt.sentinel)
			}
			if got := FailedStep(err); got != tt.step {
				t.Errorf("step = %q, want %q", got, tt.step)
			}
			if st.left != tt.left {
				t.Errorf("left = %v, want %v", st.left, tt.left)
			}
		})
	}
}

func TestFetchClosesConnOnFailure(t *testing.T) {
	st, d := newFakes()
	d.conn.reply = []byte("nope")
	if _, err := Fetch(st, d, Config{}); err == nil {
		t.Fatal("want error")
	}
	if !d.conn.closed {
		t.Error("connection left open")
	}
}

func TestParseResponse(t *testing.T) {
	tests := []struct {
		in     string
		code   int
		status string
		ok     bool
	}{
		{"HTTP/1.1 200 OK\r\n", 200, "200 OK", true},
		{"HTTP/1.0 404 Not Found\r\n\r\n", 404, "404 Not Found", true},
		{"HTTP/1.1 204\r\n", 204, "204", true},
		{"HTTP/1.1 200", 200, "200", true},
		{"HTTP/2 200 OK\r\n", 0, "", false},
		{"HTTP/1.X 200 OK\r\n", 0, "", false},
		{"HTTP/1.  200 OK\r\n", 0, "", false},
		{"HTTP/1.1 2x0 OK\r\n", 0, "", false},
		{"HTTP/1.1 2000 OK\r\n", 0, "", false},
		{"HTTP/1.1 042 OK\r\n", 0, "", false},
		{"http/1.1 200 OK\r\n", 0, "", false},
		{"", 0, "", false},
	}
	for _, tt := range tests {
		resp, err := ParseResponse([]byte(tt.in))
		if tt.ok != (err == nil) {
			t.Errorf("%q: err = %v", tt.in, err)
			continue
		}
		if !tt.ok {
			if !errors.Is(err, ErrInvalidResponse) {
				t.Errorf("%q: err = %v, want ErrInvalidResponse", tt.in, err)
			}
			continue
		}
		if resp.StatusCode != tt.code || resp.Status != tt.status {
			t.Errorf("%q: got %d %q", tt.in, resp.StatusCode, resp.Status)
		}
	}
}

func TestRetry(t *testing.T) {
	transient := &StepError{Step: StepConnect, Err: errors.New("syn timeout")}
	tests := []struct {
		name      string
		errs      []error
		attempts  int
		wantCalls int
		wantErr   bool
	}{
		{"first try", []error{nil}, 3, 1, false},
		{"second try", []error{transient, nil}, 3, 2, false},
		{"exhausted", []error{transient, transient, transient}, 3, 3, true},
		{"not station", []error{&StepError{Step: StepJoin, Err: ErrNotStationMode}}, 3, 1, true},
		{"bad reply", []error{&StepError{Step: StepRecv, Err: ErrInvalidResponse}}, 3, 1, true},
		{"zero attempts", []error{transient}, 0, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int
			var slept []time.Duration
			err := Retry(Policy{
				Attempts: tt.attempts,
				Backoff:  5 * time.Second,
				Sleep:    func(d time.Duration) { slept = append(slept, d) },
			}, func() error {
				err := tt.errs[calls]
				calls++
				return err
			})
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v", err)
			}
			if len(slept) != calls-1 {
				t.Errorf("slept %d times for %d calls", len(slept), calls)
			}
		})
	}
}
