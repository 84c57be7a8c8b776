package routingapi

import (
	"context"

	"github.com/tilegraph/tilegraph-engine/internal/tgerr"
)

// Backend is the out-of-scope routing/matching service, reached through an
// opaque byte round-trip: it accepts an Encode'd request and returns raw
// response bytes plus the format it chose to answer in. A real integration
// (FFI, RPC, subprocess) implements this; the façade never looks inside.
type Backend interface {
	Send(ctx context.Context, action Action, request []byte) (data []byte, format Format, err error)
}

// ResponseKind classifies Response per the declared response format.
type ResponseKind int

const (
	// KindJSON is a UTF-8 JSON string (Valhalla or OSRM shape).
	KindJSON ResponseKind = iota
	// KindStructured is a decoded Api for a Pbf response.
	KindStructured
	// KindBytes is an opaque byte payload (Gpx, GeoTiff, ...).
	KindBytes
)

// Response is the classified result of a routing backend call.
type Response struct {
	Kind       ResponseKind
	JSON       string
	Structured Api
	Bytes      []byte
}

// Facade holds a reusable Backend handle. It keeps no serialization buffer:
// each Do call encodes the request into a newly allocated slice. It is not
// safe for concurrent use by multiple threads; each caller should hold its
// own Facade.
type Facade struct {
	backend Backend
}

// NewFacade builds a Facade around an existing Backend connection.
func NewFacade(backend Backend) *Facade {
	return &Facade{backend: backend}
}

// Do encodes opts, sends it to the backend for the given action, and
// classifies the response. Crash-prone action/format combinations never
// reach the backend: the façade synthesizes BackendError for them directly.
func (f *Facade) Do(ctx context.Context, opts Options) (Response, error) {
	if crashes(opts.Action, opts.Format) {
		return Response{}, tgerr.New(tgerr.BackendError, opts.Action.String()+" does not support this format")
	}

	req := Encode(opts)
	data, format, err := f.backend.Send(ctx, opts.Action, req)
	if err != nil {
		return Response{}, tgerr.Wrap(tgerr.BackendError, "routing backend rejected request", err)
	}

	return Classify(data, format), nil
}

// Classify maps raw response bytes and their declared format to a Response
// variant: Json/Osrm -> JSON string, Pbf -> Structured, everything else ->
// raw Bytes.
func Classify(data []byte, format Format) Response {
	switch format {
	case FormatJSON, FormatOsrm:
		return Response{Kind: KindJSON, JSON: string(data)}
	case FormatPbf:
		return Response{Kind: KindStructured, Structured: decodeAPI(data)}
	default:
		return Response{Kind: KindBytes, Bytes: data}
	}
}
