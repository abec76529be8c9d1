// Package twilio implements the small slice of Twilio's webhook contract the
// service needs: TwiML response rendering and request signature validation.
package twilio

import (
	"encoding/xml"
	"fmt"
)

// MessagingResponse is a TwiML document replying to an inbound SMS.
type MessagingResponse struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message"`
}

// VoiceResponse is a TwiML document for a voice call leg. Say speaks a reply
// and Gather listens for the next spoken command.
type VoiceResponse struct {
	XMLName xml.Name `xml:"Response"`
	Say     []string `xml:"Say"`
	Gather  *Gather  `xml:"Gather,omitempty"`
	Hangup  *Hangup  `xml:"Hangup,omitempty"`
}

// Hangup ends the call.
type Hangup struct{}

// Gather prompts the caller for speech input.
type Gather struct {
	Input   string `xml:"input,attr"`
	Action  string `xml:"action,attr"`
	Timeout int    `xml:"timeout,attr"`
	Say     string `xml:"Say"`
}

// RenderSMS builds the TwiML for a text message reply.
func RenderSMS(body string) ([]byte, error) {
	return render(MessagingResponse{Message: body})
}

// RenderVoicePrompt builds the TwiML that greets a caller and gathers speech.
func RenderVoicePrompt(greeting, action string) ([]byte, error) {
	return render(VoiceResponse{
		Gather: &Gather{
			Input:   "speech",
			Action:  action,
			Timeout: 3,
			Say:     greeting,
		},
	})
}

// RenderVoiceHangup speaks a final message and ends the call.
func RenderVoiceHangup(text string) ([]byte, error) {
	return render(VoiceResponse{
		Say:    []string{text},
		Hangup: &Hangup{},
	})
}

// RenderVoiceReply speaks the command result, then gathers the next command.
func RenderVoiceReply(reply, action string) ([]byte, error) {
	return render(VoiceResponse{
		Say: []string{reply},
		Gather: &Gather{
			Input:   "speech",
			Action:  action,
			Timeout: 3,
			Say:     "Anything else?",
		},
	})
}

func render(doc any) ([]byte, error) {
	body, err := xml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to render TwiML: %w", err)
	}
	return append([]byte(xml.Header), body...), nil
}
