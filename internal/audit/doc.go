// Package audit works over saved baselines: label statistics, comparison of
// two baselines, source context for a finding, and the interactive labeling
// session.
package audit
