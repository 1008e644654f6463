// Package retention enforces retention policies on stored scenario
// runs: age-based pruning (delete runs older than N days), count-based
// pruning (keep at most N runs), and a cron scheduler that runs both
// on a configured schedule.
package retention
