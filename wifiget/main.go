//go:build tinygo

// Command wifiget joins a wireless network, sends one HTTP GET to a mock
// server and prints the first response buffer to serial. Progress is shown
// on a 16x2 HD44780 LCD. When brokerAddr is set the result is also published
// over MQTT.
//
// Configuration is passed with linker flags, e.g.
//
//	-ldflags="-X 'main.brokerAddr=10.0.0.9:1883'"
//
// plus the ssid and pass variables of the cyw43439 package.
package main

import (
	"errors"
	"log/slog"
	"machine"
	"time"

	"github.com/harveysanders/picoweather/board"
	"github.com/harveysanders/picoweather/wifiget/cyw43439"
	"github.com/harveysanders/picoweather/wifiget/httpget"
	"github.com/harveysanders/picoweather/wifiget/lcd"
	"github.com/harveysanders/picoweather/wifiget/report"
	"tinygo.org/x/drivers/hd44780i2c"
)

var (
	brokerAddr string
	mqttUser   string
	mqttPass   string
)

func main() {
	// Give the serial monitor a moment to attach.
	time.Sleep(2 * time.Second)
	logger := board.Logger(slog.LevelInfo)

	// Buffered so a slow LCD never stalls the network sequence.
	lcdMessages := make(chan lcd.Message, 10)
	err := machine.I2C0.Configure(machine.I2CConfig{
		SDA: machine.GP4,
		SCL: machine.GP5,
	})
	if err != nil {
		board.PrintErrForever(logger, "configure I2C", slog.Any("reason", err))
	}
	dev, err := configureLCD(machine.I2C0)
	if err != nil {
		board.PrintErrForever(logger, "configure LCD", slog.Any("reason", err))
	}
	go lcd.NewHandler(dev, lcdMessages, logger).Run()

	stack, err := cyw43439.New(cyw43439.Config{
		SSID:       cyw43439.SSID(),
		Passphrase: cyw43439.Password(),
		Hostname:   "picoweather",
		Logger:     logger,
	})
	if err != nil {
		lcd.Send(lcdMessages, "Config error", err.Error())
		board.PrintErrForever(logger, "configure wifi", slog.Any("reason", err))
	}

	cfg := httpget.Config{
		Logger: logger,
		OnStep: func(s httpget.Step) {
			line1, line2 := lcd.StepMessage(s)
			lcd.Send(lcdMessages, line1, line2)
		},
	}
	policy := httpget.Policy{
		Attempts: 3,
		Backoff:  5 * time.Second,
		Logger:   logger,
	}
	var resp httpget.Response
	err = httpget.Retry(policy, func() (err error) {
		resp, err = httpget.Fetch(stack, stack, cfg)
		return err
	})
	line1, line2 := lcd.ResultMessage(resp, err)
	lcd.Send(lcdMessages, line1, line2)
	if err != nil {
		board.PrintErrForever(logger, "http get",
			slog.String("step", string(httpget.FailedStep(err))),
			slog.Bool("retryable", httpget.Retryable(err)),
			slog.Any("reason", err),
		)
	}

	logger.Info("response",
		slog.Int("status", resp.StatusCode),
		slog.String("body", string(resp.Raw)),
	)

	if brokerAddr != "" {
		err = publish(stack, logger, resp)
		if err != nil {
			logger.Error("report", slog.Any("reason", err))
		}
	}

	// Keep main() running
	for {
		time.Sleep(time.Minute)
	}
}

func publish(stack *cyw43439.Stack, logger *slog.Logger, resp httpget.Response) error {
	err := stack.Join()
	if err != nil {
		return err
	}
	p := report.Publisher{
		ID:       "picoweather-wifiget",
		Timeout:  5 * time.Second,
		Logger:   logger,
		Username: mqttUser,
		Password: mqttPass,
	}
	err = p.Publish(stack, brokerAddr, report.NewSummary(httpget.DefaultHost, httpget.DefaultPath, resp))
	return errors.Join(err, stack.Leave())
}

// configureLCD takes a preconfigured I2C peripheral and initializes the
// HD44780 LCD on its usual backpack address.
func configureLCD(i2c *machine.I2C) (hd44780i2c.Device, error) {
	const addr = 0x27
	dev := hd44780i2c.New(i2c, addr)
	err := dev.Configure(hd44780i2c.Config{
		Width:  16,
		Height: 2,
	})
	if err != nil {
		return dev, errors.New("LCD not found on address 0x27: " + err.Error())
	}
	return dev, nil
}
