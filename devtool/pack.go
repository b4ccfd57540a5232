package devtool

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/weibaohui/difytool-go/manifest"
	"go.uber.org/zap"
)

// Validate 加载并校验插件包根描述文件及其引用的插件描述文件
func Validate(root string) (*manifest.Bundle, error) {
	bundle, err := manifest.LoadBundle(filepath.Join(root, "manifest.yaml"))
	if err != nil {
		return nil, err
	}

	for _, rel := range bundle.Plugins {
		if _, err := manifest.LoadPlugin(filepath.Join(root, rel)); err != nil {
			return nil, err
		}
	}

	return bundle, nil
}

// Pack 校验后打包生成发布用的 zip，返回生成的文件路径
// 包内收录 manifest.yaml、README.md（如存在）以及各插件描述文件
func Pack(root, distDir string, logger *zap.Logger) (string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	bundle, err := Validate(root)
	if err != nil {
		return "", err
	}

	if distDir == "" {
		distDir = filepath.Join(root, "dist")
	}
	if err := os.MkdirAll(distDir, 0755); err != nil {
		return "", err
	}

	outPath := filepath.Join(distDir, fmt.Sprintf("%s-%s.zip", bundle.Name, bundle.Version))
	out, err := os.Create(outPath)
	if err != nil {
		return "", err
	}
	defer out.Close()

	writer := zip.NewWriter(out)

	include := []string{"manifest.yaml"}
	if _, err := os.Stat(filepath.Join(root, "README.md")); err == nil {
		include = append(include, "README.md")
	}
	include = append(include, bundle.Plugins...)

	for _, rel := range include {
		if err := addFile(writer, root, rel); err != nil {
			writer.Close()
			return "", err
		}
	}

	if err := writer.Close(); err != nil {
		return "", err
	}

	logger.Info("打包完成",
		zap.String("output", outPath),
		zap.Int("files", len(include)),
	)

	return outPath, nil
}

// addFile 把 root 下的相对路径文件写入 zip
func addFile(writer *zip.Writer, root, rel string) error {
	src, err := os.Open(filepath.Join(root, rel))
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := writer.Create(filepath.ToSlash(rel))
	if err != nil {
		return err
	}

	_, err = io.Copy(dst, src)
	return err
}
