package main

import (
	"log"
	"os"

	_ "github.com/annel0/wanderer/internal/world/material/implementations"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("❌ %v", err)
	}
}

const usageText = `usage: mapctl -cmd <command> [flags]

commands:
  generate  сгенерировать мир и сохранить в слот
  list      показать слоты
  inspect   показать слои карты (или стек тайлов клетки с -x/-y)
  export    выгрузить слот в файл (-out)
  import    загрузить файл (-in) в слот
  png       отрисовать слот в PNG (-out)
  delete    удалить слот
`
