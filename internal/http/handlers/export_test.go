package handlers

// UnitResponse exposes the unexported response type to external tests.
type UnitResponse = unitResponse
