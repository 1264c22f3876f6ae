package events

const (
	TopicOrderCreated        = "pos.order.created"
	TopicOrderStatusChanged  = "pos.order.status_changed"
	TopicOrderPaymentChanged = "pos.order.payment_changed"
	TopicOrderDeleted        = "pos.order.deleted"
	TopicProductChanged      = "pos.product.changed"
	TopicScheduleChanged     = "pos.schedule.changed"
)

// AllTopics is what the worker subscribes to.
var AllTopics = []string{
	TopicOrderCreated,
	TopicOrderStatusChanged,
	TopicOrderPaymentChanged,
	TopicOrderDeleted,
	TopicProductChanged,
	TopicScheduleChanged,
}

// Partition key = entity id, so every event of one order keeps its order.
func PartitionKey(id string) []byte { return []byte(id) }
