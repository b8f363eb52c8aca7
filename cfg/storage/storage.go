package storage

// Storage 配置数据存储接口
type Storage interface {
	// Sub 获取子配置，key 支持点号嵌套和 [] 数组下标，例如 "table.options.name"、"writers[0].type"
	Sub(key string) Storage

	// ConvertTo 将配置数据转成结构体、map、slice 等任意结构
	ConvertTo(object any) error
}
