package twilio

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	twiliosdk "github.com/twilio/twilio-go"
	twilioclient "github.com/twilio/twilio-go/client"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// AddressPrefix marks a WhatsApp address in Twilio wire format.
const AddressPrefix = "whatsapp:"

// Sender sends outbound WhatsApp messages through the Twilio REST API.
type Sender struct {
	api  *twiliosdk.RestClient
	from string
	log  *zerolog.Logger
}

// NewSender builds a Sender from account credentials and the configured
// WhatsApp sender address. All three values are required.
func NewSender(accountSID, authToken, from string, logger *zerolog.Logger) (*Sender, error) {
	if accountSID == "" || authToken == "" || from == "" {
		return nil, ErrNotConfigured
	}

	client := twiliosdk.NewRestClientWithParams(twiliosdk.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	return &Sender{api: client, from: from, log: logger}, nil
}

// SendText sends a free-text message and returns the provider message SID.
func (s *Sender) SendText(requestID, to, body string) (string, error) {
	s.log.Info().
		Str("request_id", requestID).
		Str("to", MaskAddress(to)).
		Int("body_length", len(body)).
		Msg("whatsapp send start")

	params := &openapi.CreateMessageParams{}
	params.SetFrom(s.from)
	params.SetTo(to)
	params.SetBody(body)

	return s.create(requestID, params)
}

// SendTemplate sends a Content API template message with variables and
// returns the provider message SID.
func (s *Sender) SendTemplate(requestID, to, contentSid string, variables map[string]string) (string, error) {
	vars, err := json.Marshal(variables)
	if err != nil {
		return "", fmt.Errorf("encode content variables: %w", err)
	}

	s.log.Info().
		Str("request_id", requestID).
		Str("to", MaskAddress(to)).
		Str("content_sid", contentSid).
		Msg("whatsapp template send start")

	params := &openapi.CreateMessageParams{}
	params.SetFrom(s.from)
	params.SetTo(to)
	params.SetContentSid(contentSid)
	params.SetContentVariables(string(vars))

	return s.create(requestID, params)
}

func (s *Sender) create(requestID string, params *openapi.CreateMessageParams) (string, error) {
	resp, err := s.api.Api.CreateMessage(params)
	if err != nil {
		var restErr *twilioclient.TwilioRestError
		if errors.As(err, &restErr) {
			s.log.Error().
				Str("request_id", requestID).
				Int("code", restErr.Code).
				Int("status", restErr.Status).
				Str("message", restErr.Message).
				Msg("whatsapp send failed")
			return "", &UpstreamError{
				Code:    restErr.Code,
				Status:  restErr.Status,
				Message: restErr.Message,
			}
		}
		s.log.Error().Str("request_id", requestID).Err(err).Msg("whatsapp send failed")
		return "", &UpstreamError{Message: err.Error()}
	}

	sid := ""
	if resp.Sid != nil {
		sid = *resp.Sid
	}
	s.log.Info().Str("request_id", requestID).Str("sid", sid).Msg("whatsapp send success")
	return sid, nil
}

// MaskAddress hides all but the last four digits of a phone address so full
// numbers never reach the logs.
func MaskAddress(addr string) string {
	if addr == "" {
		return addr
	}
	prefix := ""
	number := addr
	if strings.HasPrefix(addr, AddressPrefix) {
		prefix = AddressPrefix
		number = addr[len(AddressPrefix):]
	}
	if len(number) <= 4 {
		return prefix + "***"
	}
	return prefix + "***" + number[len(number)-4:]
}
