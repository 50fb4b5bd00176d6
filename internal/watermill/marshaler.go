package watermillutil

import (
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
)

// Marshaler encodes event payloads as JSON messages.
var Marshaler = cqrs.JSONMarshaler{}
