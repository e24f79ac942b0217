package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// readCSV 读取带表头的 CSV 文件，maxRows >= 0 时最多读取 maxRows 条记录。
// 返回表头和数据记录。
func readCSV(path string, maxRows int64) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.ReuseRecord = false

	header, err := r.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv header: %w", err)
	}

	var records [][]string
	for maxRows < 0 || int64(len(records)) < maxRows {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read csv record: %w", err)
		}
		records = append(records, rec)
	}
	return header, records, nil
}

// columnIndex 返回各列名在表头中的下标，缺失的列报错。
func columnIndex(header []string, names ...string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[name] = i
	}
	out := make(map[string]int, len(names))
	for _, name := range names {
		i, ok := idx[name]
		if !ok {
			return nil, fmt.Errorf("csv column %q not found", name)
		}
		out[name] = i
	}
	return out, nil
}
