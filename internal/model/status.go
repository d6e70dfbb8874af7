package model

// OperationKind identifies which facade operation produced a result or error
type OperationKind string

const (
	// OperationVideo is a single video download
	OperationVideo OperationKind = "video"

	// OperationAudio is an audio-only download with conversion
	OperationAudio OperationKind = "audio"

	// OperationInfo is a metadata lookup without download
	OperationInfo OperationKind = "info"

	// OperationPlaylist is a whole-playlist download
	OperationPlaylist OperationKind = "playlist"
)

// String returns the string representation of OperationKind
func (k OperationKind) String() string {
	return string(k)
}

// Action returns the gerund phrase used in user-facing messages,
// e.g. "downloading video".
func (k OperationKind) Action() string {
	switch k {
	case OperationVideo:
		return "downloading video"
	case OperationAudio:
		return "downloading audio"
	case OperationInfo:
		return "getting video info"
	case OperationPlaylist:
		return "downloading playlist"
	default:
		return "running " + string(k)
	}
}

// IsMutating reports whether the operation writes into the destination
func (k OperationKind) IsMutating() bool {
	return k == OperationVideo || k == OperationAudio || k == OperationPlaylist
}
