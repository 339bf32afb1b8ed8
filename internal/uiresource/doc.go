// Package uiresource models UI resource descriptors carried inside MCP tool results.
//
// A descriptor is one embedded resource content item whose URI uses the ui://
// scheme. Its delivery is either inline HTML (served to the host as a document
// to embed) or an external URL the host loads by address. Metadata rides in the
// resource's _meta object under keys prefixed with MetaPrefix; the render data
// the embedded UI needs lives under MetadataKeyInitialRenderData.
package uiresource
