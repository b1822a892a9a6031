package entities

// ArtifactKind is the closed classification of an uploaded artifact.
type ArtifactKind string

const (
	KindDocument ArtifactKind = "document"
	KindAudio    ArtifactKind = "audio"
)

// Artifact is an uploaded meeting file staged on local disk for processing.
type Artifact struct {
	FileName string
	Path     string
	Kind     ArtifactKind
}
