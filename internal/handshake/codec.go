package handshake

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"github.com/wagiedev/mcpui-go/internal/errors"
)

// envelope is the JSON shape shared by every message.
type envelope struct {
	Type      Type            `json:"type"`
	MessageID string          `json:"messageId,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

type renderDataPayload struct {
	RenderData json.RawMessage `json:"renderData"`
}

type toolPayload struct {
	ToolName string         `json:"toolName"`
	Params   map[string]any `json:"params,omitempty"`
}

type intentPayload struct {
	Intent string         `json:"intent"`
	Params map[string]any `json:"params,omitempty"`
}

type notifyPayload struct {
	Message string `json:"message"`
	Level   Level  `json:"level,omitempty"`
}

type responsePayload struct {
	Response *responseBody `json:"response,omitempty"`
	Error    string        `json:"error,omitempty"`
}

type responseBody struct {
	Status Status `json:"status"`
}

// Parse decodes a handshake message.
//
// Data that is not a JSON object or carries an unrecognized type returns an
// error wrapping ErrUnknownMessageType; callers sharing a channel with other
// traffic should ignore it. A recognized type with a malformed payload returns
// a *MessageParseError.
func Parse(data []byte) (Message, error) {
	if kind(data) != "object" {
		return nil, fmt.Errorf("%w: not a json object", errors.ErrUnknownMessageType)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrUnknownMessageType, err)
	}

	switch env.Type {
	case TypeReady:
		return Ready{}, nil
	case TypeRenderData:
		return parseRenderData(env)
	case TypeTool:
		return parseTool(env)
	case TypeIntent:
		return parseIntent(env)
	case TypeNotify:
		return parseNotify(env)
	case TypeMessageResponse:
		return parseResponse(env)
	default:
		return nil, fmt.Errorf("%w: %q", errors.ErrUnknownMessageType, env.Type)
	}
}

func parseRenderData(env envelope) (Message, error) {
	if kind(env.Payload) != "object" {
		return nil, parseError(env.Type, "invalid payload structure")
	}

	var p renderDataPayload
	if err := json.Unmarshal(env.Payload, &p); err != nil {
		return nil, &errors.MessageParseError{Type: string(env.Type), Err: err}
	}

	switch k := kind(p.RenderData); k {
	case "undefined", "null":
		return RenderData{}, nil
	case "object":
		var data map[string]any
		if err := json.Unmarshal(p.RenderData, &data); err != nil {
			return nil, &errors.MessageParseError{Type: string(env.Type), Err: err}
		}

		return RenderData{Data: data}, nil
	default:
		return nil, parseError(env.Type, "expected object but received "+k)
	}
}

func parseTool(env envelope) (Message, error) {
	var p toolPayload
	if err := decodePayload(env, &p); err != nil {
		return nil, err
	}

	if p.ToolName == "" {
		return nil, parseError(env.Type, "toolName is required")
	}

	return ToolAction{MessageID: env.MessageID, ToolName: p.ToolName, Params: p.Params}, nil
}

func parseIntent(env envelope) (Message, error) {
	var p intentPayload
	if err := decodePayload(env, &p); err != nil {
		return nil, err
	}

	if p.Intent == "" {
		return nil, parseError(env.Type, "intent is required")
	}

	return IntentAction{MessageID: env.MessageID, Intent: p.Intent, Params: p.Params}, nil
}

func parseNotify(env envelope) (Message, error) {
	var p notifyPayload
	if err := decodePayload(env, &p); err != nil {
		return nil, err
	}

	if p.Level == "" {
		p.Level = LevelInfo
	}

	if !p.Level.Valid() {
		return nil, parseError(env.Type, fmt.Sprintf("unknown level %q", p.Level))
	}

	return NotifyAction{MessageID: env.MessageID, Message: p.Message, Level: p.Level}, nil
}

func parseResponse(env envelope) (Message, error) {
	var p responsePayload
	if err := decodePayload(env, &p); err != nil {
		return nil, err
	}

	r := Response{MessageID: env.MessageID, Error: p.Error}
	if p.Response != nil {
		r.Status = p.Response.Status
	}

	return r, nil
}

func decodePayload(env envelope, v any) error {
	if kind(env.Payload) != "object" {
		return parseError(env.Type, "invalid payload structure")
	}

	if err := json.Unmarshal(env.Payload, v); err != nil {
		return &errors.MessageParseError{Type: string(env.Type), Err: err}
	}

	return nil
}

func parseError(t Type, msg string) error {
	return &errors.MessageParseError{Type: string(t), Err: stderrors.New(msg)}
}

// kind names the JSON type of raw by its first significant byte.
func kind(raw []byte) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "undefined"
	}

	switch raw[0] {
	case '{':
		return "object"
	case '[':
		return "array"
	case '"':
		return "string"
	case 't', 'f':
		return "boolean"
	case 'n':
		return "null"
	default:
		return "number"
	}
}

// Marshal encodes a handshake message.
func Marshal(m Message) ([]byte, error) {
	env := envelope{Type: m.Type()}

	var payload any

	switch v := m.(type) {
	case Ready:
	case RenderData:
		payload = struct {
			RenderData map[string]any `json:"renderData"`
		}{v.Data}
	case ToolAction:
		env.MessageID = v.MessageID
		payload = toolPayload{ToolName: v.ToolName, Params: v.Params}
	case IntentAction:
		env.MessageID = v.MessageID
		payload = intentPayload{Intent: v.Intent, Params: v.Params}
	case NotifyAction:
		env.MessageID = v.MessageID
		payload = notifyPayload{Message: v.Message, Level: v.Level}
	case Response:
		env.MessageID = v.MessageID

		p := responsePayload{Error: v.Error}
		if v.Error == "" {
			p.Response = &responseBody{Status: v.Status}
		}

		payload = p
	default:
		return nil, fmt.Errorf("unsupported message type %T", m)
	}

	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal %s payload: %w", env.Type, err)
		}

		env.Payload = raw
	}

	return json.Marshal(env)
}
