// Package automation runs spring experiments in bulk: scripted scenario
// files of headless runs, and Monte Carlo trials that replay one transition
// under randomly jittered frame intervals.
package automation
