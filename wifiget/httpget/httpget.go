// Package httpget joins a wireless network and performs a single HTTP GET.
//
// The sequence is linear: join the access point, resolve the host, open one
// TCP connection, send the request, read one response buffer, close the
// connection and leave the network. Any failure stops the sequence and is
// returned as a *StepError; the caller decides whether to retry or halt.
// The radio and IP stack sit behind the Station and Dialer interfaces.
package httpget

import (
	"io"
	"log/slog"
	"net/netip"
	"strconv"
)

const (
	DefaultHost        = "cctest.free.beeceptor.com"
	DefaultPath        = "/my/api/path"
	DefaultPort        = 80
	DefaultRecvBufSize = 300
)

// Station is the wireless link.
type Station interface {
	// Join connects to the configured access point and blocks until an
	// address is acquired.
	Join() error
	// Leave disconnects from the access point.
	Leave() error
}

// Dialer resolves names and opens TCP connections over the station link.
type Dialer interface {
	LookupIP(host string) (netip.Addr, error)
	DialTCP(addr netip.AddrPort) (io.ReadWriteCloser, error)
}

// Config configures Fetch. Zero fields take the defaults above.
type Config struct {
	Host        string
	Path        string
	Port        uint16
	RecvBufSize int
	Logger      *slog.Logger
	// OnStep, if set, is called as each step starts.
	OnStep func(Step)
}

// Response is the parsed head of the first response buffer.
type Response struct {
	Proto      string // "HTTP/1.1"
	StatusCode int
	Status     string // "200 OK"
	Raw        []byte // Bytes read, at most RecvBufSize.
}

func (c *Config) setDefaults() {
	if c.Host == "" {
		c.Host = DefaultHost
	}
	if c.Path == "" {
		c.Path = DefaultPath
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.RecvBufSize <= 0 {
		c.RecvBufSize = DefaultRecvBufSize
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
			Level: slog.Level(127),
		}))
	}
	if c.OnStep == nil {
		c.OnStep = func(Step) {}
	}
}

// Fetch runs the whole sequence once. The station is left even when a step
// after joining fails; a Leave failure is only reported when everything
// else succeeded.
func Fetch(st Station, d Dialer, cfg Config) (resp Response, err error) {
	cfg.setDefaults()
	log := cfg.Logger

	cfg.OnStep(StepJoin)
	log.Info("httpget:joining")
	if err := st.Join(); err != nil {
		return Response{}, stepErr(StepJoin, err)
	}
	defer func() {
		cfg.OnStep(StepLeave)
		leaveErr := st.Leave()
		if leaveErr != nil {
			log.Error("httpget:leave", slog.String("err", leaveErr.Error()))
			if err == nil {
				err = stepErr(StepLeave, leaveErr)
			}
		}
	}()

	cfg.OnStep(StepResolve)
	addr, err := d.LookupIP(cfg.Host)
	if err != nil {
		return Response{}, stepErr(StepResolve, err)
	}
	log.Info("httpget:resolved", slog.String("host", cfg.Host), slog.String("addr", addr.String()))

	cfg.OnStep(StepConnect)
	conn, err := d.DialTCP(netip.AddrPortFrom(addr, cfg.Port))
	if err != nil {
		return Response{}, stepErr(StepConnect, err)
	}

	resp, err = exchange(conn, &cfg)
	if err != nil {
		conn.Close()
		return Response{}, err
	}

	cfg.OnStep(StepClose)
	if err := conn.Close(); err != nil {
		return Response{}, stepErr(StepClose, err)
	}
	log.Info("httpget:done", slog.Int("status", resp.StatusCode), slog.Int("bytes", len(resp.Raw)))
	return resp, nil
}

// exchange sends the GET and reads one buffer back.
func exchange(conn io.ReadWriter, cfg *Config) (Response, error) {
	cfg.OnStep(StepSend)
	req := BuildRequest(make([]byte, 0, 128), cfg.Host, cfg.Path)
	n, err := conn.Write(req)
	if err != nil || n != len(req) {
		return Response{}, &StepError{Step: StepSend, Err: ErrSend, Cause: err}
	}

	cfg.OnStep(StepRecv)
	buf := make([]byte, cfg.RecvBufSize)
	n, err = conn.Read(buf)
	if n <= 0 {
		return Response{}, &StepError{Step: StepRecv, Err: ErrRecv, Cause: err}
	}
	resp, err := ParseResponse(buf[:n])
	if err != nil {
		return Response{}, &StepError{Step: StepRecv, Err: err}
	}
	return resp, nil
}

// BuildRequest appends the GET request for path on host to dst.
func BuildRequest(dst []byte, host, path string) []byte {
	dst = append(dst, "GET "...)
	dst = append(dst, path...)
	dst = append(dst, " HTTP/1.1\r\nHost:"...)
	dst = append(dst, host...)
	dst = append(dst, "\r\nAccept: */*\r\n\r\n"...)
	return dst
}

// ParseResponse reads the status line at the start of buf. buf only needs
// to hold the beginning of the reply.
func ParseResponse(buf []byte) (Response, error) {
	const prefix = "HTTP/1."
	if len(buf) < len(prefix)+5 || string(buf[:len(prefix)]) != prefix {
		return Response{}, ErrInvalidResponse
	}
	if minor := buf[len(prefix)]; minor < '0' || minor > '9' {
		return Response{}, ErrInvalidResponse
	}
	sp := len(prefix) + 1
	if buf[sp] != ' ' {
		return Response{}, ErrInvalidResponse
	}
	codeStart := sp + 1
	codeEnd := codeStart + 3
	if codeEnd > len(buf) {
		return Response{}, ErrInvalidResponse
	}
	code, err := strconv.Atoi(string(buf[codeStart:codeEnd]))
	if err != nil || code < 100 || code > 999 {
		return Response{}, ErrInvalidResponse
	}
	if codeEnd < len(buf) && buf[codeEnd] != ' ' && buf[codeEnd] != '\r' {
		return Response{}, ErrInvalidResponse
	}

	lineEnd := codeEnd
	for lineEnd < len(buf) && buf[lineEnd] != '\r' && buf[lineEnd] != '\n' {
		lineEnd++
	}
	raw := make([]byte, len(buf))
	copy(raw, buf)
	return Response{
		Proto:      string(buf[:sp]),
		StatusCode: code,
		Status:     string(buf[codeStart:lineEnd]),
		Raw:        raw,
	}, nil
}

func stepErr(step Step, err error) *StepError {
	return &StepError{Step: step, Err: err}
}
