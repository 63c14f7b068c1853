package document

import (
	"encoding/binary"
	"math"
	"strconv"

	domdoc "github.com/lexivec/lexivec/internal/domain/document"
)

// toHashFields flattens a document into hash fields: strings as-is,
// numerics via strconv, the vector as a little-endian float32 blob under
// the schema's vector field name.
func toHashFields(doc *domdoc.Document, vectorField string) map[string]string {
	fields := make(map[string]string, len(doc.Strings())+len(doc.Numerics())+1)
	for k, v := range doc.Strings() {
		fields[k] = v
	}
	for k, v := range doc.Numerics() {
		fields[k] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	if doc.HasVector() && vectorField != "" {
		fields[vectorField] = vectorToBlob(doc.Vector())
	}
	return fields
}

// fromHashFields rebuilds a document from hash fields. Attributes are
// typed by the caller-provided classifier: numeric field names parse as
// float64, everything else stays a string.
func fromHashFields(id string, fields map[string]string, vectorField string, isNumeric func(string) bool) domdoc.Document {
	strs := make(map[string]string)
	nums := make(map[string]float64)
	var vector []float32

	for k, v := range fields {
		switch {
		case k == vectorField && vectorField != "":
			vector = blobToVector(v)
		case isNumeric(k):
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				nums[k] = f
			}
		default:
			strs[k] = v
		}
	}

	return domdoc.Reconstruct(id, strs, nums, vector)
}

func vectorToBlob(v []float32) string {
	b := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(f))
	}
	return string(b)
}

func blobToVector(s string) []float32 {
	b := []byte(s)
	if len(b) == 0 || len(b)%4 != 0 {
		return nil
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v
}
