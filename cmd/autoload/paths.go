package main

import "path/filepath"

// outputDir 返回输出文件所在目录的绝对路径。
func outputDir(output string) (string, error) {
	abs, err := filepath.Abs(output)
	if err != nil {
		return "", err
	}
	return filepath.Dir(abs), nil
}
