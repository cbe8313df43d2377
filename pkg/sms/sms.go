// Package sms delivers one-time login codes through an HTTP SMS gateway.
package sms

import (
	"context"
	"fmt"
	"time"

	"github.com/imroc/req/v3"

	"github.com/urbannest/urbannest/pkg/config"
)

type Interface interface {
	SendOTP(ctx context.Context, phone, code string) error
}

type sender struct {
	http *req.Client
	cfg  config.SMS
}

func New(cfg config.SMS) Interface {
	return &sender{
		http: req.C().SetBaseURL(cfg.GatewayURL).SetTimeout(10 * time.Second),
		cfg:  cfg,
	}
}

func (s *sender) SendOTP(ctx context.Context, phone, code string) error {
	resp, err := s.http.R().
		SetContext(ctx).
		SetBearerAuthToken(s.cfg.APIKey).
		SetBodyJsonMarshal(map[string]string{
			"from": s.cfg.Sender,
			"to":   phone,
			"text": fmt.Sprintf("Your UrbanNest login code is %s. It expires in 5 minutes.", code),
		}).
		Post("/messages")
	if err != nil {
		return fmt.Errorf("send otp to %s: %w", phone, err)
	}
	if resp.IsErrorState() {
		return fmt.Errorf("send otp to %s: gateway returned %s", phone, resp.Status)
	}
	return nil
}
