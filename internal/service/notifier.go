package service

// Notifier publishes domain events for downstream consumers (mail,
// push, activity feeds). Publishing is best-effort: implementations
// log their own failures and services discard the error, they never
// fail the request on it.
type Notifier interface {
	Publish(key string, payload any) error
}
