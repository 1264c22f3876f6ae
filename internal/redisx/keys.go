package redisx

import "time"

const (
	// Idempotency checkout: idem:checkout:{key} -> order_id, or IdemPending while the first request runs
	KeyIdemCheckout = "idem:checkout:%s"
	IdemPending     = "pending"

	// Session cart: cart:{session_id} -> JSON cart
	KeyCart = "cart:%s"

	// Kitchen summary cache: kitchen:{version}:{date|all} -> JSON summary
	KeyKitchenSummary = "kitchen:%d:%s"

	// Bumped by the api on kitchen-affecting writes and again by the worker; old summaries just expire.
	KeyKitchenVersion = "kitchen:version"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"

	// Pub/sub channel for live change notices.
	ChannelLive = "pos:live"
)

var (
	TTLIdempotency  = 24 * time.Hour
	TTLCart         = 24 * time.Hour
	TTLKitchenCache = 30 * time.Second
	TTLDedup        = 48 * time.Hour
)
