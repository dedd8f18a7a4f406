// Package domain defines core data models and interfaces shared across the
// trust core. It contains plain types (keys, credentials, wire variants) and
// contracts (interfaces) only.
package domain
