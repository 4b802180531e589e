package server

import (
	"fmt"
	"html"
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/mdouchement/dma/internal/database"
	"github.com/mdouchement/dma/internal/server/middlewares"
	"github.com/sirupsen/logrus"
)

// An IOC is an Iversion Of Control pattern used to init the server package.
type IOC struct {
	Version  string
	Database database.Client
	Logger   logrus.FieldLogger
	// BasePath is the prefix of all the API routes (e.g. /api).
	BasePath string
	// AllowedOrigin is the only origin allowed by CORS.
	AllowedOrigin string
}

// EchoEngine instantiates the wep server.
func EchoEngine(ctrl IOC) *echo.Echo {
	log := ctrl.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	engine := echo.New()
	engine.HideBanner = true
	engine.Use(middleware.Recover())
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{ctrl.AllowedOrigin},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowCredentials: true,
	}))
	engine.Use(middlewares.CrossOriginIsolation())
	engine.Use(middleware.Gzip())

	engine.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "[${status}] ${method} ${uri} (${bytes_in}) ${latency_human}\n",
		Output: log.WithField("component", "http").Writer(),
	}))
	engine.Binder = middlewares.NewBinder()
	// Error handler
	engine.HTTPErrorHandler = middlewares.HTTPErrorHandler(log)

	////////////
	// Router //
	////////////

	router := engine.Group("")
	api := router.Group(ctrl.BasePath)

	// generic handlers
	//
	router.GET("/", func(c echo.Context) error {
		return c.HTML(http.StatusOK, homepage(ctrl.BasePath))
	})
	router.GET("/version", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"version": ctrl.Version,
		})
	})

	//
	// record handlers
	//
	record := &record{
		db:       ctrl.Database,
		log:      log,
		basePath: ctrl.BasePath,
	}
	api.GET("/create-table", record.CreateTable)
	api.GET("/data", record.List)
	api.POST("/data", record.Insert)
	api.PUT("/data/:id", record.Update)
	api.DELETE("/data/:id", record.Delete)

	return engine
}

// PrintRoutes prints the Echo engin exposed routes.
func PrintRoutes(e *echo.Echo) {
	ignored := map[string]bool{
		"":   true,
		".":  true,
		"/*": true,
	}

	routes := e.Routes()
	sort.Slice(routes, func(i int, j int) bool {
		return routes[i].Path < routes[j].Path
	})

	fmt.Println("Routes:")
	for _, route := range routes {
		if ignored[route.Path] {
			continue
		}
		fmt.Printf("%6s %s\n", route.Method, route.Path)
	}
}

func homepage(basePath string) string {
	p := html.EscapeString(basePath)
	return `<h1>Welcome to the API</h1>
<p>Use the following endpoints to interact with the database:</p>
<ul>
  <li><a href="` + p + `/create-table">` + p + `/create-table</a> - Create the table</li>
  <li><a href="` + p + `/data">` + p + `/data</a> - Get all data</li>
  <li>POST ` + p + `/data - Insert data</li>
  <li>PUT ` + p + `/data/:id - Update data</li>
  <li>DELETE ` + p + `/data/:id - Delete data</li>
</ul>
`
}
