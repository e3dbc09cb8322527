// Package datasetinfo reads a dataset's meta/info.json and decides whether
// the visualizer can handle it.
package datasetinfo

import (
	"encoding/json"
	"slices"
	"strings"
)

// InfoPath is the metadata document inside every dataset directory.
const InfoPath = "meta/info.json"

// SupportedVersions lists the codebase versions the visualizer understands,
// newest first.
var SupportedVersions = []string{"v3.0", "v2.1", "v2.0"}

// IsSupportedVersion reports whether v is one of SupportedVersions.
func IsSupportedVersion(v string) bool {
	return slices.Contains(SupportedVersions, v)
}

// Info is the decoded meta/info.json document. Only CodebaseVersion and the
// presence of features are checked; every other field is a best-effort view
// and stays at its zero value when the document uses another JSON type for
// it. Raw always carries the document unchanged.
type Info struct {
	CodebaseVersion    string
	RobotType          *string
	TotalEpisodes      int64
	TotalFrames        int64
	TotalTasks         int64
	ChunksSize         int64
	DataFilesSizeInMB  float64
	VideoFilesSizeInMB float64
	FPS                float64
	Splits             map[string]string
	DataPath           string
	VideoPath          string
	Features           map[string]json.RawMessage

	// Raw is the document exactly as fetched.
	Raw json.RawMessage
}

// ParseInfo decodes data. A document whose features are absent, null or
// otherwise falsy (false, 0, "") is rejected with ErrMissingFeatures.
func ParseInfo(data []byte) (*Info, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	if !truthy(fields["features"]) {
		return nil, ErrMissingFeatures
	}

	info := &Info{
		CodebaseVersion: versionString(fields["codebase_version"]),
		Raw:             json.RawMessage(data),
	}
	decodeField(fields, "robot_type", &info.RobotType)
	decodeField(fields, "total_episodes", &info.TotalEpisodes)
	decodeField(fields, "total_frames", &info.TotalFrames)
	decodeField(fields, "total_tasks", &info.TotalTasks)
	decodeField(fields, "chunks_size", &info.ChunksSize)
	decodeField(fields, "data_files_size_in_mb", &info.DataFilesSizeInMB)
	decodeField(fields, "video_files_size_in_mb", &info.VideoFilesSizeInMB)
	decodeField(fields, "fps", &info.FPS)
	decodeField(fields, "splits", &info.Splits)
	decodeField(fields, "data_path", &info.DataPath)
	decodeField(fields, "video_path", &info.VideoPath)
	decodeField(fields, "features", &info.Features)
	return info, nil
}

// decodeField sets dst only when fields[key] decodes cleanly into T.
func decodeField[T any](fields map[string]json.RawMessage, key string, dst *T) {
	raw, ok := fields[key]
	if !ok {
		return
	}
	var v T
	if err := json.Unmarshal(raw, &v); err == nil {
		*dst = v
	}
}

func truthy(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	default:
		return true
	}
}

// versionString returns codebase_version as text. A non-string value is
// kept in its JSON form so it is reported as unsupported rather than missing.
func versionString(raw json.RawMessage) string {
	if !truthy(raw) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}
