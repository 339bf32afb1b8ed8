package mcpui

// Version is the toolkit version reported as the client implementation.
const Version = "0.1.0"
