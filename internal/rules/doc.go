// Package rules decides which configured section, if any, a broadcast
// belongs to. Every section contributes one rule combining a time-of-day
// window, a weekday set, and a case-insensitive title pattern. Rules are
// tried in configuration order and the first hit wins.
package rules
