// Package subscription decides which subscribers receive a change event.
//
// A subscription is either an item subscription (exact key) or a location
// subscription (type chain plus containment prefix). Matching short-circuits
// cheapest-first: scopes, then event type, then key or location containment.
// Delivery itself is the caller's concern; this package only filters.
package subscription
