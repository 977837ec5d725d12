package layout

import (
	"encoding/json"
	"os"
)

// WriteDebugJSON 把排版结果落盘为带缩进的 JSON，便于排查分页与坐标问题。
func WriteDebugJSON(res *Result, path string) error {
	if res == nil {
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
