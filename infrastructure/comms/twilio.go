package comms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"wa-highlighter/core"
	"wa-highlighter/helpers"
)

const twilioAPIURL = "https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json"

// TwilioHelper sends images to WhatsApp through Twilio's Messages API. Twilio
// fetches media by URL, so the image is put in the media store first.
type TwilioHelper struct {
	accountSID string
	apiURL     string
	authToken  string
	client     *http.Client
	fromNumber string
	mediaStore core.MediaStore
	timeout    time.Duration
}

type twilioErrorResponse struct {
	Code     int    `json:"code"`
	Message  string `json:"message"`
	MoreInfo string `json:"more_info"`
}

func InitializeTwilioHelper(ctx context.Context, accountSID, authToken, fromNumber string, mediaStore core.MediaStore, contextTimeout time.Duration) (*TwilioHelper, error) {
	if len(accountSID) == 0 || len(authToken) == 0 || len(fromNumber) == 0 {
		return nil, fmt.Errorf("accountSID, authToken, or fromNumber is not specified")
	}
	if mediaStore == nil {
		return nil, fmt.Errorf("mediaStore is not specified")
	}
	return &TwilioHelper{
		accountSID: accountSID,
		apiURL:     twilioAPIURL,
		authToken:  authToken,
		client:     &http.Client{},
		fromNumber: fromNumber,
		mediaStore: mediaStore,
		timeout:    contextTimeout,
	}, nil
}

func (th *TwilioHelper) SendImage(ctx context.Context, destination string, image core.GeneratedImage, fileName string) error {
	if strings.TrimSpace(destination) == "" {
		return fmt.Errorf("destination is not specified")
	}
	if len(image) == 0 {
		return fmt.Errorf("image is empty")
	}

	ctx, cancel := context.WithTimeout(ctx, th.timeout)
	defer cancel()

	mediaURL, err := th.mediaStore.PutMedia(ctx, fileName, image, helpers.ContentTypeForFileName(fileName))
	if err != nil {
		return fmt.Errorf("failed to host media: %w", err)
	}

	form := url.Values{}
	form.Set("From", helpers.WhatsAppAddress(th.fromNumber))
	form.Set("To", helpers.WhatsAppAddress(destination))
	form.Set("MediaUrl", mediaURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf(th.apiURL, th.accountSID), strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	th.setupHeaders(req)

	resp, err := th.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var responseBody bytes.Buffer
		if _, err := responseBody.ReadFrom(resp.Body); err != nil {
			return fmt.Errorf("received non-2xx response status: %s, and failed to read response body: %w", resp.Status, err)
		}
		var twilioErr twilioErrorResponse
		if err := json.Unmarshal(responseBody.Bytes(), &twilioErr); err == nil && twilioErr.Message != "" {
			return fmt.Errorf("received non-2xx response status: %s, code=%d: %s", resp.Status, twilioErr.Code, twilioErr.Message)
		}
		return fmt.Errorf("received non-2xx response status: %s, response body: %s", resp.Status, responseBody.String())
	}
	return nil
}

func (th *TwilioHelper) setupHeaders(req *http.Request) {
	req.SetBasicAuth(th.accountSID, th.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
}
