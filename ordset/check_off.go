//go:build !ordsetcheck

package ordset

const checkEnabled = false
