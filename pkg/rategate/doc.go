// Package rategate limits how many postcards a sender may email per UTC day.
//
// A Gate checks the count of usage records in the current UTC day against
// the daily quota (3 by default). Senders on the allow-list are unlimited
// and never recorded. Emails are trimmed and case-folded before any lookup.
//
// The gate fails closed: when the store cannot be read, Check denies and
// returns an error wrapping ErrStoreUnavailable. Record runs after a
// postcard has been emailed and only logs store failures. Check and Record
// are not transactional, so concurrent sends may overshoot the quota.
//
// Stores:
//
//   - MemoryStore for development and tests
//   - MongoStore over the "postcards" collection
//   - RedisStore with one expiring counter per sender per day
//
// The policy comes from the environment (DAILY_QUOTA, CREATOR_EMAILS) or a
// YAML file named by RATE_POLICY_FILE:
//
//	daily_quota: 3
//	allow_list:
//	  - creator@example.com
package rategate
