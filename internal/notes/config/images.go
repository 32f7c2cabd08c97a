package config

// ImagesConfig задает каталог файлов изображений и каталог загрузок.
type ImagesConfig struct {
	Root      string `yaml:"root" env:"NOTES_IMAGES_ROOT" env-default:"./data/images"`
	UploadDir string `yaml:"upload_dir" env:"NOTES_IMAGES_UPLOAD_DIR" env-default:"./data/uploads"`
}
