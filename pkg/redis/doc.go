// Package redis connects to Redis with retries and exposes a health check.
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	store := rategate.NewRedisStore(client)
//	ready := redis.Healthcheck(client)
//
// Connect errors wrap ErrRedisNotReady or ErrFailedToParseRedisConnString
// with errors.Join.
package redis
