//go:build tinygo

// Package cyw43439 runs the Pico W radio as a station for httpget.
//
// Stack implements httpget.Station (join WPA2 or open network, DHCP) and
// httpget.Dialer (DNS and TCP through the lneto stack). Credentials come
// from linker flags:
//
//	tinygo flash -target=pico-w -ldflags="-X 'github.com/harveysanders/picoweather/wifiget/cyw43439.ssid=home' -X 'github.com/harveysanders/picoweather/wifiget/cyw43439.pass=secret'" ./wifiget
//
// The setup follows the examples in the soypat/cyw43439 repository:
// https://github.com/soypat/cyw43439/tree/main/examples/common
package cyw43439

import (
	"errors"
	"io"
	"log/slog"
	"net"
	"net/netip"
	"time"

	"github.com/harveysanders/picoweather/wifiget/httpget"
	"github.com/soypat/cyw43439"
	"github.com/soypat/lneto/tcp"
	"github.com/soypat/lneto/x/xnet"
)

const (
	mtu      = cyw43439.MTU
	pollTime = 5 * time.Millisecond
)

var (
	ssid string
	pass string
)

// SSID returns the WiFi SSID set via linker flags.
func SSID() string { return ssid }

// Password returns the WiFi password set via linker flags.
func Password() string { return pass }

// Config configures the station.
type Config struct {
	// SSID and Passphrase of the access point. An empty passphrase joins an
	// open network.
	SSID       string
	Passphrase string
	// Hostname is used for DHCP requests.
	Hostname string
	// TCPBufSize is the size of each TCP rx and tx buffer.
	TCPBufSize int
	// Timeout bounds DNS, DHCP and the TCP handshake.
	Timeout time.Duration
	// Logger for stack operations.
	Logger *slog.Logger
}

// Stack wraps the lneto StackAsync and CYW43439 device for network operations.
type Stack struct {
	cfg     Config
	s       xnet.StackAsync
	dev     *cyw43439.Device
	log     *slog.Logger
	sendbuf []byte
	start   time.Time

	initialized bool
	poll        poller
}

// New returns an idle station. Nothing touches the radio until Join.
func New(cfg Config) (*Stack, error) {
	if cfg.Hostname == "" {
		return nil, errors.New("empty hostname")
	}
	if cfg.SSID == "" {
		return nil, errors.New("empty ssid: set it with -ldflags -X")
	}
	if cfg.TCPBufSize <= 0 {
		cfg.TCPBufSize = 2030 // MTU - ethhdr - iphdr - tcphdr
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
			Level: slog.Level(127), // Make temporary logger that does no logging.
		}))
	}
	return &Stack{
		cfg:     cfg,
		log:     logger,
		sendbuf: make([]byte, mtu),
		start:   time.Now(),
		poll:    poller{idle: pollTime},
	}, nil
}

// Join implements httpget.Station. It initializes the radio on first use,
// joins the access point, resets the IP stack and runs DHCP. A link
// without an IPv4 address is reported as httpget.ErrNotStationMode.
func (s *Stack) Join() error {
	if s.poll.active() {
		return nil // Already joined.
	}
	if !s.initialized {
		s.dev = cyw43439.NewPicoWDevice()
		s.dev.SetLogger(s.log)
		s.log.Info("initializing pico W device...")
		err := s.dev.Init(cyw43439.DefaultWifiConfig())
		if err != nil {
			return errors.New("wifi init failed:" + err.Error())
		}
		s.log.Info("cyw43439:Init", slog.Duration("duration", time.Since(s.start)))
		s.initialized = true
	}

	if len(s.cfg.Passphrase) == 0 {
		s.log.Info("joining open network:", slog.String("ssid", s.cfg.SSID))
	} else {
		s.log.Info("joining WPA secure network", slog.String("ssid", s.cfg.SSID), slog.Int("passlen", len(s.cfg.Passphrase)))
	}
	err := s.dev.JoinWPA2(s.cfg.SSID, s.cfg.Passphrase)
	if err != nil {
		return errors.New("wifi join failed:" + err.Error())
	}

	mac, err := s.dev.HardwareAddr6()
	if err != nil {
		return errors.New("get hardware address:" + err.Error())
	}
	s.log.Info("wifi join success!", slog.String("mac", net.HardwareAddr(mac[:]).String()))

	err = s.s.Reset(xnet.StackConfig{
		Hostname:        s.cfg.Hostname,
		MaxTCPConns:     1,
		RandSeed:        time.Since(s.start).Nanoseconds(),
		HardwareAddress: mac,
		MTU:             mtu,
	})
	if err != nil {
		return errors.New("stack reset:" + err.Error())
	}
	s.dev.RecvEthHandle(func(pkt []byte) error {
		return s.s.Demux(pkt, 0)
	})

	s.poll.start(s.service)

	return s.setupDHCP()
}

// Leave implements httpget.Station. The driver has no disassociate call, so
// leaving stops servicing the link: no frames are sent or received after it
// returns.
func (s *Stack) Leave() error {
	if !s.poll.stop() {
		return errors.New("not joined")
	}
	s.log.Info("wifi:left")
	return nil
}

// service runs one poll of the device and stack. It reports whether any
// frame moved.
func (s *Stack) service() bool {
	send, recv, _ := s.recvAndSend()
	return send != 0 || recv != 0
}

// setupDHCP performs DHCP configuration and sets the gateway.
func (s *Stack) setupDHCP() error {
	rstack := s.s.StackRetrying(50 * time.Millisecond)

	s.log.Info("DHCP:starting")
	dhcpResults, err := rstack.DoDHCPv4([4]byte{}, 3*time.Second, 3)
	if err != nil {
		return errors.New("dhcp failed:" + err.Error())
	}
	if !dhcpResults.AssignedAddr.Is4() || dhcpResults.AssignedAddr.IsUnspecified() {
		return httpget.ErrNotStationMode
	}

	err = s.s.AssimilateDHCPResults(dhcpResults)
	if err != nil {
		return errors.New("assimilate dhcp:" + err.Error())
	}

	// Resolve and set the router hardware address as the gateway
	gatewayHW, err := rstack.DoResolveHardwareAddress6(dhcpResults.Router, 500*time.Millisecond, 4)
	if err != nil {
		return errors.New("resolve gateway:" + err.Error())
	}
	s.s.SetGateway6(gatewayHW)

	s.log.Info("DHCP complete",
		slog.String("ourIP", dhcpResults.AssignedAddr.String()),
		slog.String("gateway", dhcpResults.Gateway.String()),
		slog.String("router", dhcpResults.Router.String()),
		slog.Uint64("lease_sec", uint64(dhcpResults.TLease)),
	)
	return nil
}

// LookupIP implements httpget.Dialer. Literal addresses skip DNS.
func (s *Stack) LookupIP(host string) (netip.Addr, error) {
	if addr, err := netip.ParseAddr(host); err == nil {
		return addr, nil
	}
	s.log.Info("dns:resolving " + host)
	addrs, err := s.s.StackRetrying(pollTime).DoLookupIP(host, s.cfg.Timeout, 3)
	if err != nil {
		return netip.Addr{}, errors.New("dns lookup for " + host + ": " + err.Error())
	}
	if len(addrs) == 0 {
		return netip.Addr{}, errors.New("dns lookup for " + host + ": no addresses returned")
	}
	return addrs[0], nil
}

// DialTCP implements httpget.Dialer.
func (s *Stack) DialTCP(addr netip.AddrPort) (io.ReadWriteCloser, error) {
	conn := new(tcp.Conn)
	err := conn.Configure(tcp.ConnConfig{
		RxBuf:             make([]byte, s.cfg.TCPBufSize),
		TxBuf:             make([]byte, s.cfg.TCPBufSize),
		TxPacketQueueSize: 3,
	})
	if err != nil {
		return nil, errors.New("tcp configure:" + err.Error())
	}

	// Use stack's PRNG for random port
	localPort := uint16(s.s.Prand32()>>17) + 1024
	s.log.Info("socket:dialing", slog.String("addr", addr.String()), slog.Uint64("localPort", uint64(localPort)))
	err = s.s.StackRetrying(pollTime).DoDialTCP(conn, localPort, addr, s.cfg.Timeout, 3)
	if err != nil {
		conn.Abort()
		return nil, errors.New("dial " + addr.String() + ": " + err.Error())
	}
	s.log.Info("tcp:connected", slog.String("state", conn.State().String()))
	conn.SetDeadline(time.Now().Add(s.cfg.Timeout))
	return &closingConn{Conn: conn, log: s.log}, nil
}

// closingConn waits for the FIN handshake on Close before releasing the
// connection.
type closingConn struct {
	*tcp.Conn
	log *slog.Logger
}

func (c *closingConn) Close() error {
	err := c.Conn.Close()
	// Wait for connection to close
	for i := 0; i < 50 && !c.Conn.State().IsClosed(); i++ {
		time.Sleep(100 * time.Millisecond)
	}
	c.Conn.Abort()
	c.log.Info("tcpconn:closed")
	return err
}

// recvAndSend processes incoming and outgoing packets.
// Returns the number of bytes sent and received, and any error.
func (s *Stack) recvAndSend() (send, recv int, err error) {
	// Poll for incoming packets
	gotPacket, errRecv := s.dev.PollOne()
	if gotPacket {
		recv = 1
	}
	if errRecv != nil {
		s.log.Error("RecvAndSend:PollOne", slog.String("err", errRecv.Error()))
	}

	// Handle outgoing packets via Encapsulate
	send, err = s.s.Encapsulate(s.sendbuf, -1, 0)
	if err != nil {
		s.log.Error("RecvAndSend:Encapsulate", slog.Int("plen", send), slog.String("err", err.Error()))
	} else {
		err = errRecv // Pass receive error if encapsulate succeeded
	}

	if send == 0 {
		return send, recv, err
	}

	// Send the encapsulated packet
	err = s.dev.SendEth(s.sendbuf[:send])
	if err != nil {
		s.log.Error("RecvAndSend:SendEth", slog.Int("plen", send), slog.String("err", err.Error()))
	}

	return send, recv, err
}
