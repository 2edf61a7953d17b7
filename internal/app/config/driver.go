package config

type (
	DriverConfig struct {
		MongoDB  MongoDB
		Redis    Redis
		Logger   Logger
		RabbitMQ RabbitMQ
		Minio    Minio
	}
	MongoDB struct {
		Enabled  bool
		Port     string `validate:"required_if=Enabled true"`
		Host     string `validate:"required_if=Enabled true"`
		Username string
		Password string
	}
	Redis struct {
		Enabled  bool
		Host     string `validate:"required_if=Enabled true"`
		Port     string `validate:"required_if=Enabled true"`
		Password string
	}
	Logger struct {
		Level               string `validate:"required,oneof=debug info warn error"`
		OutputFileName      string
		OutputErrorFileName string
	}
	RabbitMQ struct {
		Enabled  bool
		Port     string `validate:"required_if=Enabled true"`
		Host     string `validate:"required_if=Enabled true"`
		Username string
		Password string
	}
	Minio struct {
		Enabled  bool
		Port     string `validate:"required_if=Enabled true"`
		Host     string `validate:"required_if=Enabled true"`
		Username string
		Password string
		UseSSL   bool
	}
)
