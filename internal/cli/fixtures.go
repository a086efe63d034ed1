package cli

import (
	"fmt"
	"os"

	"github.com/roach88/strata/internal/key"
	"github.com/roach88/strata/internal/query"
	"github.com/roach88/strata/internal/subscription"
)

// Fixture loading: thin file wrappers over the wire codecs the domain
// packages own. All fixture problems surface as LoadErrors with a code the
// formatter can print.

// LoadKeyFixture reads and decodes a key fixture file.
func LoadKeyFixture(path string) (key.ItemKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("key fixture: %v", err)}
	}
	k, err := key.UnmarshalKey(data)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeBadFixture, Message: fmt.Sprintf("key fixture: %v", err)}
	}
	return k, nil
}

// LoadItemFixture reads and decodes an item fixture file.
func LoadItemFixture(path string) (query.Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return query.Item{}, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("item fixture: %v", err)}
	}
	item, err := query.DecodeItem(data)
	if err != nil {
		return query.Item{}, &LoadError{Code: ErrCodeBadFixture, Message: fmt.Sprintf("item fixture: %v", err)}
	}
	return item, nil
}

// LoadEventFixture reads and decodes a change-event fixture file.
func LoadEventFixture(path string) (subscription.ChangeEvent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return subscription.ChangeEvent{}, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("event fixture: %v", err)}
	}
	event, err := subscription.DecodeChangeEvent(data)
	if err != nil {
		return subscription.ChangeEvent{}, &LoadError{Code: ErrCodeBadFixture, Message: fmt.Sprintf("event fixture: %v", err)}
	}
	return event, nil
}

// LoadSubscriptionsFixture reads and decodes a subscription list fixture.
func LoadSubscriptionsFixture(path string) ([]subscription.Subscription, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("subscriptions fixture: %v", err)}
	}
	subs, err := subscription.DecodeSubscriptions(data)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeBadFixture, Message: fmt.Sprintf("subscriptions fixture: %v", err)}
	}
	return subs, nil
}
