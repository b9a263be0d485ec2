// Package lcd provides a channel-based messaging system for HD44780 LCD displays.
//
// Example usage:
//
//	lcdMessages := make(chan lcd.Message, 10)
//	handler := lcd.NewHandler(device, lcdMessages, logger)
//	go handler.Run()
//
//	// Send messages non-blocking
//	lcd.Send(lcdMessages, "Status", "OK")
package lcd

import (
	"strconv"

	"github.com/harveysanders/picoweather/wifiget/httpget"
)

// Message represents a two-line LCD message.
type Message struct {
	Line1 []byte
	Line2 []byte
}

// Send queues a message without blocking. When the channel is full the
// message is dropped and Send reports false.
func Send(messages chan<- Message, line1, line2 string) bool {
	select {
	case messages <- Message{Line1: []byte(line1), Line2: []byte(line2)}:
		return true
	default:
		// Channel full - message dropped
		return false
	}
}

// StepMessage returns the status lines shown while a GET step runs.
func StepMessage(step httpget.Step) (line1, line2 string) {
	switch step {
	case httpget.StepJoin:
		return "Joining AP", "DHCP..."
	case httpget.StepResolve:
		return "DNS lookup", httpget.DefaultHost
	case httpget.StepConnect:
		return "Connecting...", "TCP handshake"
	case httpget.StepSend:
		return "GET", httpget.DefaultPath
	case httpget.StepRecv:
		return "Waiting for", "response"
	case httpget.StepClose:
		return "Closing socket", ""
	case httpget.StepLeave:
		return "Leaving AP", ""
	}
	return string(step), ""
}

// ResultMessage returns the lines shown once the sequence ends.
func ResultMessage(resp httpget.Response, err error) (line1, line2 string) {
	if err != nil {
		return "GET failed", string(httpget.FailedStep(err))
	}
	return "HTTP " + strconv.Itoa(resp.StatusCode), strconv.Itoa(len(resp.Raw)) + " bytes"
}
