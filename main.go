package main

import (
	"corework/bizerror"
	"corework/domain"
	"corework/domain/facility"
	"corework/domain/worktype"
	"corework/event"
	"corework/history"
	"corework/infra/tracing"
	"corework/persistence"
	"corework/sequence"
	"corework/servehttp"
	"corework/session"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	logrus.Infoln("service start")

	dbConfig, err := persistence.ParseDatabaseConfigFromEnv()
	if err != nil {
		logrus.Fatalf("parse database config failed %v\n", err)
	}

	// create database (no conflict)
	if dbConfig.DriverType == "mysql" {
		if err := persistence.PrepareMysqlDatabase(dbConfig.DriverArgs); err != nil {
			logrus.Fatalf("failed to prepare database %v\n", err)
		}
	}

	// connect database
	ds := &persistence.DataSourceManager{DatabaseConfig: dbConfig}
	if err := ds.Start(); err != nil {
		logrus.Fatalf("database connection failed %v\n", err)
	}
	defer ds.Stop()
	persistence.ActiveDataSourceManager = ds

	// database migration (race condition)
	err = ds.GormDB().AutoMigrate(
		&domain.Work{}, &domain.Activity{},
		&worktype.WorkType{}, &worktype.ActivityType{},
		&facility.Domain{}, &facility.Location{}, &facility.ShopGroup{},
		&history.StatusRecord{}, &sequence.Counter{}, &event.EventRecord{},
	).Error
	if err != nil {
		logrus.Fatalf("database migration failed %v\n", err)
	}

	tracingCloser := tracing.Bootstrap()
	if tracingCloser != nil {
		defer tracingCloser.Close()
	}

	event.StartCron()

	engine := gin.Default()
	engine.Use(bizerror.ErrorHandling())
	engine.Use(tracing.TracingIngress())
	engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "corework")
	})

	servehttp.RegisterWorkHandler(engine, session.SimpleAuthFilter())
	servehttp.RegisterWorkTypeHandler(engine, session.SimpleAuthFilter())
	servehttp.RegisterFacilityHandler(engine, session.SimpleAuthFilter())

	servehttp.StartHTTPServer(engine)
}
