// Package format houses the low-level byte-order and alignment helpers shared
// by the heap allocators and the snapshot container. The goal is to keep raw
// byte manipulation in one focused, allocation-free package so higher-level
// packages can stay expressed in terms of addresses and slots.
package format
