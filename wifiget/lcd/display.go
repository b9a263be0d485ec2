//go:build tinygo

package lcd

import (
	"log/slog"

	"tinygo.org/x/drivers/hd44780i2c"
)

// Handler processes LCD messages from a channel.
type Handler struct {
	device   hd44780i2c.Device
	messages <-chan Message
	logger   *slog.Logger
	rows     int
	columns  int
}

// NewHandler creates a new 16x2 LCD message handler.
func NewHandler(device hd44780i2c.Device, messages <-chan Message, logger *slog.Logger) *Handler {
	return &Handler{
		device:   device,
		messages: messages,
		logger:   logger,
		rows:     2,
		columns:  16,
	}
}

// Run processes messages from the channel and updates the LCD.
// Run should be called in a separate goroutine.
func (h *Handler) Run() {
	for msg := range h.messages {
		h.logger.Debug("lcd:message", slog.String("line1", string(msg.Line1)), slog.String("line2", string(msg.Line2)))
		h.display(msg)
	}
}

// display prints msg to the LCD.
func (h *Handler) display(msg Message) {
	h.device.ClearDisplay()
	h.device.SetCursor(0, 0)
	h.device.Print(clip(msg.Line1, h.columns))
	h.device.SetCursor(0, 1)
	h.device.Print(clip(msg.Line2, h.columns))
}
