package qdrant

import (
	"time"

	"github.com/qdrant/go-client/qdrant"

	"github.com/custodia-labs/ragsync-cli/internal/core/domain"
)

// Payload field names. fieldSession is the partition key; fieldFingerprint
// is the reconciliation lookup key.
const (
	fieldSession     = "group_id"
	fieldFingerprint = "chunk_hash"
	fieldPredecessor = "previous_hash"
	fieldFilename    = "filename"
	fieldFiletype    = "filetype"
	fieldOrdinal     = "chunk_id"
	fieldPage        = "page_number"
	fieldContent     = "page_content"
	fieldStatus      = "status"
	fieldSourceType  = "source_type"
	fieldUploadedAt  = "uploaded_at"
)

// payloadFromRecord flattens a record into the stored payload. Extension
// map entries are merged alongside the fixed fields; fixed fields win on
// key collision.
func payloadFromRecord(rec domain.ChunkRecord) map[string]*qdrant.Value {
	fields := make(map[string]any, len(rec.Extra)+11)
	for k, v := range rec.Extra {
		fields[k] = v
	}

	fields[fieldSession] = rec.SessionID
	fields[fieldFingerprint] = rec.Fingerprint
	fields[fieldFilename] = rec.Filename
	fields[fieldFiletype] = rec.Filetype
	fields[fieldOrdinal] = rec.Ordinal
	fields[fieldPage] = rec.Page
	fields[fieldContent] = rec.Content
	fields[fieldStatus] = string(rec.Status)
	if rec.Predecessor != "" {
		fields[fieldPredecessor] = rec.Predecessor
	}
	if rec.SourceType != "" {
		fields[fieldSourceType] = rec.SourceType
	}
	if !rec.UploadedAt.IsZero() {
		fields[fieldUploadedAt] = rec.UploadedAt.UTC().Format(time.RFC3339)
	}

	return qdrant.NewValueMap(fields)
}

// recordFromPayload rebuilds a record from a stored payload. Unknown keys
// land in the extension map with numbers widened to float64, mirroring what
// callers see after a JSON round trip.
func recordFromPayload(id string, payload map[string]*qdrant.Value) domain.ChunkRecord {
	rec := domain.ChunkRecord{ID: id}

	var extra map[string]any
	for key, value := range payload {
		switch key {
		case fieldSession:
			rec.SessionID = value.GetStringValue()
		case fieldFingerprint:
			rec.Fingerprint = value.GetStringValue()
		case fieldPredecessor:
			rec.Predecessor = value.GetStringValue()
		case fieldFilename:
			rec.Filename = value.GetStringValue()
		case fieldFiletype:
			rec.Filetype = value.GetStringValue()
		case fieldOrdinal:
			rec.Ordinal = int(value.GetIntegerValue())
		case fieldPage:
			rec.Page = int(value.GetIntegerValue())
		case fieldContent:
			rec.Content = value.GetStringValue()
		case fieldStatus:
			rec.Status = domain.ChunkStatus(value.GetStringValue())
		case fieldSourceType:
			rec.SourceType = value.GetStringValue()
		case fieldUploadedAt:
			if t, err := time.Parse(time.RFC3339, value.GetStringValue()); err == nil {
				rec.UploadedAt = t
			}
		default:
			if extra == nil {
				extra = make(map[string]any)
			}
			extra[key] = valueToAny(value)
		}
	}
	rec.Extra = extra
	return rec
}

func valueToAny(value *qdrant.Value) any {
	switch v := value.GetKind().(type) {
	case *qdrant.Value_StringValue:
		return v.StringValue
	case *qdrant.Value_IntegerValue:
		return float64(v.IntegerValue)
	case *qdrant.Value_DoubleValue:
		return v.DoubleValue
	case *qdrant.Value_BoolValue:
		return v.BoolValue
	case *qdrant.Value_NullValue:
		return nil
	case *qdrant.Value_ListValue:
		items := v.ListValue.GetValues()
		out := make([]any, 0, len(items))
		for _, item := range items {
			out = append(out, valueToAny(item))
		}
		return out
	case *qdrant.Value_StructValue:
		fields := v.StructValue.GetFields()
		out := make(map[string]any, len(fields))
		for k, item := range fields {
			out[k] = valueToAny(item)
		}
		return out
	}
	return nil
}
