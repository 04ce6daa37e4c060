/*
Package resilience provides a circuit breaker for external commands.

The catalog daemon shells out to macOS tools (mdfind, plutil, sips). When one of
them keeps failing, the breaker opens so that later calls fail fast instead of
spawning a process that is known to be broken. After the cooldown a single
trial call is admitted; success closes the breaker, failure reopens it.

# Usage

	breaker := resilience.ForCommand("mdfind", 3, 30*time.Second, logger)

	lines, err := resilience.Do(breaker, func() ([]string, error) {
		return search(ctx)
	})

# States

	Closed --[failures]-> Open --[timeout]-> Half-Open --[successes]-> Closed
	                                           |
	                                    [failure]
	                                           v
	                                         Open
*/
package resilience
