package uiresource

// Mode names a delivery mode on the wire.
type Mode string

const (
	// ModeRawHTML embeds inline markup.
	ModeRawHTML Mode = "rawHtml"
	// ModeExternalURL embeds a page by address.
	ModeExternalURL Mode = "externalUrl"
)

// Delivery describes how the host obtains the UI document.
// Implementations: RawHTML, ExternalURL.
type Delivery interface {
	Mode() Mode
	delivery() // marker method
}

// Compile-time verification that all delivery modes implement Delivery.
var (
	_ Delivery = RawHTML{}
	_ Delivery = ExternalURL{}
)

// RawHTML carries a complete HTML document embedded as srcdoc.
type RawHTML struct {
	HTML string
}

// Mode implements Delivery.
func (RawHTML) Mode() Mode { return ModeRawHTML }

func (RawHTML) delivery() {}

// ExternalURL points the embedding surface at a hosted page.
type ExternalURL struct {
	URL string
}

// Mode implements Delivery.
func (ExternalURL) Mode() Mode { return ModeExternalURL }

func (ExternalURL) delivery() {}
