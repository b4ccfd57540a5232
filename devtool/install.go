package devtool

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/weibaohui/difytool-go/utils"
	"go.uber.org/zap"
)

// CLIRepo 官方 Dify Plugin CLI 的 GitHub 仓库
const CLIRepo = "langgenius/dify-plugin-cli"

// InstallError CLI 安装失败时返回的错误
type InstallError struct {
	Message string
}

func (e *InstallError) Error() string {
	return e.Message
}

// Release GitHub Release 元数据
type Release struct {
	TagName string  `json:"tag_name"`
	Assets  []Asset `json:"assets"`
}

// Asset Release 中的单个资产
type Asset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
}

// FetchRelease 获取指定版本的 Release 元数据，version 为 "latest" 时取最新版本
func FetchRelease(ctx context.Context, version string) (*Release, error) {
	url := fmt.Sprintf("https://api.github.com/repos/%s/releases/latest", CLIRepo)
	if version != "latest" {
		url = fmt.Sprintf("https://api.github.com/repos/%s/releases/tags/%s", CLIRepo, version)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("获取 CLI 发布信息失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &InstallError{Message: fmt.Sprintf("获取 CLI 发布信息失败 (status=%d)", resp.StatusCode)}
	}

	release := &Release{}
	if err := json.NewDecoder(resp.Body).Decode(release); err != nil {
		return nil, fmt.Errorf("解析 CLI 发布信息失败: %w", err)
	}

	return release, nil
}

// SelectAsset 选择匹配指定平台的压缩包资产
// 优先选择同时匹配架构的资产，其次退回只匹配操作系统的第一个
func SelectAsset(release *Release, goos, goarch string) (*Asset, error) {
	var fallback *Asset

	for i := range release.Assets {
		asset := &release.Assets[i]
		if asset.Name == "" || asset.BrowserDownloadURL == "" {
			continue
		}
		if !utils.ContainsInsensitive(asset.Name, goos) {
			continue
		}
		if !utils.HasSuffixInsensitive(asset.Name, ".tar.gz") &&
			!utils.HasSuffixInsensitive(asset.Name, ".tgz") &&
			!utils.HasSuffixInsensitive(asset.Name, ".zip") {
			continue
		}
		if utils.ContainsInsensitive(asset.Name, goarch) {
			return asset, nil
		}
		if fallback == nil {
			fallback = asset
		}
	}

	if fallback != nil {
		return fallback, nil
	}
	return nil, &InstallError{Message: fmt.Sprintf("没有找到 %s 平台的 CLI 资产", goos)}
}

// DownloadAsset 下载资产到指定路径
func DownloadAsset(ctx context.Context, downloadURL, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("下载 CLI 资产失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &InstallError{Message: fmt.Sprintf("下载 CLI 资产失败 (status=%d)", resp.StatusCode)}
	}

	out, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, resp.Body)
	return err
}

// ExtractArchive 解压 .zip 或 .tar.gz/.tgz 压缩包到指定目录
func ExtractArchive(archivePath, extractDir string) error {
	if utils.HasSuffixInsensitive(archivePath, ".zip") {
		return extractZip(archivePath, extractDir)
	}
	return extractTarGz(archivePath, extractDir)
}

func extractZip(archivePath, extractDir string) error {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("解压 CLI 资产失败: %w", err)
	}
	defer reader.Close()

	for _, file := range reader.File {
		target, err := sanitizePath(extractDir, file.Name)
		if err != nil {
			return err
		}
		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return err
		}
		src, err := file.Open()
		if err != nil {
			return err
		}
		if err := writeFile(target, src, file.Mode()); err != nil {
			src.Close()
			return err
		}
		src.Close()
	}
	return nil
}

func extractTarGz(archivePath, extractDir string) error {
	file, err := os.Open(archivePath)
	if err != nil {
		return err
	}
	defer file.Close()

	gz, err := gzip.NewReader(file)
	if err != nil {
		return fmt.Errorf("解压 CLI 资产失败: %w", err)
	}
	defer gz.Close()

	reader := tar.NewReader(gz)
	for {
		header, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("解压 CLI 资产失败: %w", err)
		}

		target, err := sanitizePath(extractDir, header.Name)
		if err != nil {
			return err
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return err
			}
			if err := writeFile(target, reader, os.FileMode(header.Mode)); err != nil {
				return err
			}
		}
	}
}

// sanitizePath 校验压缩包条目不会写到目标目录之外
func sanitizePath(extractDir, name string) (string, error) {
	target := filepath.Join(extractDir, filepath.FromSlash(name))
	if !strings.HasPrefix(target, filepath.Clean(extractDir)+string(os.PathSeparator)) {
		return "", &InstallError{Message: fmt.Sprintf("压缩包内含非法路径: %s", name)}
	}
	return target, nil
}

func writeFile(target string, src io.Reader, mode os.FileMode) error {
	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode.Perm())
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, src)
	return err
}

// LocateBinary 在解压目录中查找 dify 可执行文件
func LocateBinary(root string) (string, error) {
	var found string
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() && entry.Name() == "dify" {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if found == "" {
		return "", &InstallError{Message: "解压后的目录中没有找到 dify 可执行文件"}
	}
	return found, nil
}

// InstallBinary 把可执行文件复制到安装目录并赋予执行权限
func InstallBinary(binary, installDir string) (string, error) {
	if err := os.MkdirAll(installDir, 0755); err != nil {
		return "", err
	}

	destination := filepath.Join(installDir, "dify")
	src, err := os.Open(binary)
	if err != nil {
		return "", err
	}
	defer src.Close()

	if err := writeFile(destination, src, 0755); err != nil {
		return "", err
	}
	if err := os.Chmod(destination, 0755); err != nil {
		return "", err
	}

	return destination, nil
}

// InstallCLI 下载并安装官方 dify CLI，返回安装后的路径
func InstallCLI(ctx context.Context, version, installDir string, logger *zap.Logger) (string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	release, err := FetchRelease(ctx, version)
	if err != nil {
		return "", err
	}

	asset, err := SelectAsset(release, runtime.GOOS, runtime.GOARCH)
	if err != nil {
		return "", err
	}

	logger.Info("下载 dify CLI",
		zap.String("tag", release.TagName),
		zap.String("asset", asset.Name),
	)

	tmpDir, err := os.MkdirTemp("", "dify-cli-")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(tmpDir)

	archivePath := filepath.Join(tmpDir, asset.Name)
	if err := DownloadAsset(ctx, asset.BrowserDownloadURL, archivePath); err != nil {
		return "", err
	}

	extractDir := filepath.Join(tmpDir, "extracted")
	if err := os.MkdirAll(extractDir, 0755); err != nil {
		return "", err
	}
	if err := ExtractArchive(archivePath, extractDir); err != nil {
		return "", err
	}

	binary, err := LocateBinary(extractDir)
	if err != nil {
		return "", err
	}

	destination, err := InstallBinary(binary, installDir)
	if err != nil {
		return "", err
	}

	logger.Info("dify CLI 安装完成", zap.String("path", destination))
	return destination, nil
}
