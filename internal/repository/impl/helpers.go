package impl

// nullJSON 空的 JSON 字段写作 NULL 而不是空串
func nullJSON(raw []byte) interface{} {
	if len(raw) == 0 {
		return nil
	}
	return raw
}
