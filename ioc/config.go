package ioc

import (
	"errors"
	"io/fs"
	"os"

	"attack2mongo/internal/app"
)

const defaultConfigPath = "configs/config.yaml"

// InitConfig 读取应用配置。CONFIG_PATH 未设置时默认文件可以不存在。
func InitConfig() (app.Config, error) {
	path := os.Getenv("CONFIG_PATH")
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath
	}
	cfg, err := app.LoadConfig(path)
	if err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return app.Config{}, err
		}
		cfg = app.Config{}
	}
	return app.Resolve(cfg, os.LookupEnv)
}
