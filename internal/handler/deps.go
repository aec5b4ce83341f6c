package handler

import (
	"vaporchat/internal/app/chat"
	"vaporchat/internal/configs"
)

type AppDeps struct {
	Gateway *chat.Gateway
	Config  *configs.AppConfig
}
