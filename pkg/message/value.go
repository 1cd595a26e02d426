package message

// Value is the dynamically-typed structured record the bot exchanges with
// the framework: a map, array, string, int64, float64, bool, nil, or byte
// string, per spec §6. It is a thin alias over `any` — the framework never
// inspects a Value's shape beyond what CBOR itself understands.
type Value = any

// Map is the recommended shape for control commands: a map with keys
// "action" (string) and "body" (map). Bots may ignore unknown actions.
type Map map[string]Value

// Action returns the "action" string field, or "" if absent or not a
// string.
func (m Map) Action() string {
	action, _ := m["action"].(string)
	return action
}

// Body returns the "body" map field, or nil if absent or not a map.
func (m Map) Body() Map {
	switch body := m["body"].(type) {
	case Map:
		return body
	case map[string]Value:
		return Map(body)
	default:
		return nil
	}
}
