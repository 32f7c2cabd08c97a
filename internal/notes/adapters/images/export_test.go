package images

import (
	"os"
	"time"
)

func NewFilePipelineWithStat(root string, stat func(string) (os.FileInfo, error)) *FilePipeline {
	return &FilePipeline{root: root, now: time.Now, stat: stat}
}
