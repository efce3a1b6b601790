// Package catalogfile читает каталог для пакетного импорта из TOML-файла.
package catalogfile

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/magabrotheeeer/music-streaming/internal/models"
)

// Load читает каталог из файла path. Неизвестные ключи считаются ошибкой,
// чтобы опечатка в названии поля не превращалась в пустое значение.
func Load(path string) (models.Catalog, error) {
	const op = "catalogfile.Load"
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Catalog{}, fmt.Errorf("%s: %w", op, err)
	}
	return Parse(data)
}

// Parse разбирает содержимое TOML-файла каталога.
func Parse(data []byte) (models.Catalog, error) {
	const op = "catalogfile.Parse"
	var c models.Catalog
	md, err := toml.Decode(string(data), &c)
	if err != nil {
		return models.Catalog{}, fmt.Errorf("%s: %w", op, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return models.Catalog{}, fmt.Errorf("%s: unknown keys %v", op, undecoded)
	}
	return c, nil
}
