package main

import (
	"fmt"
	"time"

	"github.com/prateushsharma/sei-Firewall/config"
	"github.com/prateushsharma/sei-Firewall/routers"
	"github.com/prateushsharma/sei-Firewall/services/stream"
	"github.com/prateushsharma/sei-Firewall/storage"
	"github.com/prateushsharma/sei-Firewall/tasks"
	"github.com/prateushsharma/sei-Firewall/utils/logger"
)

func main() {
	// Set timezone
	conf := config.ServerConfig()
	loc, _ := time.LoadLocation(conf.Timezone)
	time.Local = loc

	// Initialize Redis
	if err := storage.InitializeRedis(); err != nil {
		logger.Fatalf("Redis initialization: %v", err)
	}

	// Wire the streaming gateway
	gatewayConf := config.GatewayConfig()
	registry := stream.NewMemoryRegistry(gatewayConf.FrameBufferSize)
	gateway := stream.NewGateway(registry)
	defer gateway.Shutdown()

	// Start cron jobs
	tasks.StartCronJobs(gateway)

	// Run the server
	router := routers.Routes(gateway)

	appServer := fmt.Sprintf("%s:%s", conf.Host, conf.Port)
	logger.Infof("Server Running at :%v", appServer)

	logger.Fatalf("%v", router.Run(appServer))
}
