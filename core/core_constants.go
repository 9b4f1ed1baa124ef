package core

const (
	ExpectedObject       = "whatsapp_business_account"
	MessagesField        = "messages"
	TextMessageType      = "text"
	SubscribeMode        = "subscribe"
	DefaultImageFilename = "message_highlight.png"
)

var TestTextMessage = InboundMessage{ID: "wamid.1", From: "555", Type: TextMessageType, Text: &TextContent{Body: "hello"}}
var TestImageMessage = InboundMessage{ID: "wamid.2", From: "555", Type: "image"}

var TestPayload = WebhookPayload{
	Object: ExpectedObject,
	Entry: []Entry{
		{
			ID: "entry-1",
			Changes: []Change{
				{
					Field: MessagesField,
					Value: ChangeValue{
						MessagingProduct: "whatsapp",
						Metadata:         Metadata{PhoneNumberID: "123"},
						Messages:         []InboundMessage{TestTextMessage},
					},
				},
			},
		},
	},
}

const TestPayloadJSON = `{
	"object": "whatsapp_business_account",
	"entry": [{
		"id": "entry-1",
		"changes": [{
			"field": "messages",
			"value": {
				"messaging_product": "whatsapp",
				"metadata": {"phone_number_id": "123"},
				"messages": [{"id": "wamid.1", "type": "text", "from": "555", "text": {"body": "hello"}}]
			}
		}]
	}]
}`
