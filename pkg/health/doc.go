// Package health runs named dependency checks in parallel under a shared
// timeout and reports each result.
//
//	report := health.Run(ctx, health.Checks{
//		"database": pool.Ping,
//		"redis":    func(ctx context.Context) error { return client.Ping(ctx).Err() },
//	}, health.WithTimeout(3*time.Second))
//
//	for _, name := range report.Names() {
//		fmt.Println(name, report.Checks[name].Status)
//	}
//	return report.Err()
package health
