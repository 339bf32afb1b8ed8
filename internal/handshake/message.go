package handshake

// Type is the wire discriminator of a handshake message.
type Type string

const (
	// TypeReady is sent by the embedded surface once it can receive data.
	TypeReady Type = "ui-lifecycle-iframe-ready"
	// TypeRenderData carries render data from the host to the surface.
	TypeRenderData Type = "ui-lifecycle-iframe-render-data"
	// TypeTool asks the host to call a tool.
	TypeTool Type = "tool"
	// TypeIntent forwards an application-defined intent to the host.
	TypeIntent Type = "intent"
	// TypeNotify asks the host to show a notification.
	TypeNotify Type = "notify"
	// TypeMessageResponse acknowledges an action.
	TypeMessageResponse Type = "ui-message-response"
)

// Message is a handshake message.
// Implementations: Ready, RenderData, ToolAction, IntentAction, NotifyAction,
// Response.
type Message interface {
	Type() Type
	message() // marker method
}

// Action is a message emitted by the embedded surface for the host to handle.
type Action interface {
	Message
	// ID returns the correlation id echoed in the acknowledgement, if any.
	ID() string
	action() // marker method
}

// Compile-time verification that all messages implement Message.
var (
	_ Message = Ready{}
	_ Message = RenderData{}
	_ Message = Response{}
	_ Action  = ToolAction{}
	_ Action  = IntentAction{}
	_ Action  = NotifyAction{}
)

// Ready announces the embedded surface is listening.
type Ready struct{}

func (Ready) Type() Type { return TypeReady }
func (Ready) message()   {}

// RenderData delivers render data to the embedded surface.
// A nil Data means the host has nothing to render.
type RenderData struct {
	Data map[string]any
}

func (RenderData) Type() Type { return TypeRenderData }
func (RenderData) message()   {}

// ToolAction asks the host to invoke a tool.
type ToolAction struct {
	MessageID string
	ToolName  string
	Params    map[string]any
}

func (ToolAction) Type() Type   { return TypeTool }
func (ToolAction) message()     {}
func (ToolAction) action()      {}
func (a ToolAction) ID() string { return a.MessageID }

// IntentAction forwards an intent such as "navigate" or "refresh".
type IntentAction struct {
	MessageID string
	Intent    string
	Params    map[string]any
}

func (IntentAction) Type() Type   { return TypeIntent }
func (IntentAction) message()     {}
func (IntentAction) action()      {}
func (a IntentAction) ID() string { return a.MessageID }

// Level is the severity of a notification.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Valid reports whether l is a known level.
func (l Level) Valid() bool {
	switch l {
	case LevelInfo, LevelSuccess, LevelWarning, LevelError:
		return true
	default:
		return false
	}
}

// NotifyAction asks the host to surface a message to the user.
type NotifyAction struct {
	MessageID string
	Message   string
	Level     Level
}

func (NotifyAction) Type() Type   { return TypeNotify }
func (NotifyAction) message()     {}
func (NotifyAction) action()      {}
func (a NotifyAction) ID() string { return a.MessageID }

// Status is the outcome reported in a Response.
type Status string

// StatusHandled reports the host accepted the action.
const StatusHandled Status = "handled"

// Response acknowledges an action. Error is set when the host refused it.
type Response struct {
	MessageID string
	Status    Status
	Error     string
}

func (Response) Type() Type { return TypeMessageResponse }
func (Response) message()   {}

// Ack returns the "handled" acknowledgement for an action.
func Ack(a Action) Response {
	return Response{MessageID: a.ID(), Status: StatusHandled}
}

// Reject returns a failed acknowledgement for an action.
func Reject(a Action, err error) Response {
	return Response{MessageID: a.ID(), Error: err.Error()}
}
