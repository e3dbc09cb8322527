package hub

import "time"

const (
	// DefaultEndpoint is the dataset collection of the public hub.
	DefaultEndpoint = "https://huggingface.co/datasets"
	DefaultRevision = "main"

	DefaultRequestTimeout = 10 * time.Second

	// RepoTypeDataset is the only repository type this client addresses.
	RepoTypeDataset = "dataset"

	UserAgentHeader     = "User-Agent"
	AuthorizationHeader = "Authorization"
	DefaultUserAgent    = "dataset-viz"

	// HuggingfaceCoURLTemplate is endpoint, repo id, revision, filename.
	HuggingfaceCoURLTemplate = "%s/%s/resolve/%s/%s"
)
