package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestConfig(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Config Suite")
}

var _ = Describe("Config", func() {
	var (
		tempDir    string
		configFile string
	)

	BeforeEach(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "config-test")
		Expect(err).NotTo(HaveOccurred())
		configFile = filepath.Join(tempDir, "config.yaml")
	})

	AfterEach(func() {
		os.RemoveAll(tempDir)
	})

	Describe("Load", func() {
		Context("when the config file exists with valid content", func() {
			BeforeEach(func() {
				validConfig := `
server:
  port: "8080"
  metrics_port: "9090"

database:
  host: "db.internal"
  port: 5432
  user: "shipengine"
  database: "shipengine"
  ssl_mode: "require"

storage:
  bucket: "af-shipment-files"
  region: "us-east-1"

llm:
  model: "claude-sonnet"
  timeout: "30s"

cache:
  ports_ttl: "10m"
  company_names_ttl: "5m"

project_id: "af-prod"
environment: "production"
`
				Expect(os.WriteFile(configFile, []byte(validConfig), 0644)).To(Succeed())
			})

			It("loads every section", func() {
				cfg, err := Load(configFile)
				Expect(err).NotTo(HaveOccurred())

				Expect(cfg.Server.Port).To(Equal("8080"))
				Expect(cfg.Database.Host).To(Equal("db.internal"))
				Expect(cfg.Database.SSLMode).To(Equal("require"))
				Expect(cfg.Storage.Bucket).To(Equal("af-shipment-files"))
				Expect(cfg.LLM.Model).To(Equal("claude-sonnet"))
				Expect(cfg.Cache.PortsTTL).To(Equal(10 * time.Minute))
				Expect(cfg.ProjectID).To(Equal("af-prod"))
				Expect(cfg.IsDevelopment()).To(BeFalse())
			})
		})

		Context("when DB_HOST is set in the environment", func() {
			BeforeEach(func() {
				minimalConfig := `
storage:
  bucket: "af-shipment-files"
database:
  host: "placeholder"
  database: "shipengine"
`
				Expect(os.WriteFile(configFile, []byte(minimalConfig), 0644)).To(Succeed())
				os.Setenv("DB_HOST", "envhost")
			})
			AfterEach(func() { os.Unsetenv("DB_HOST") })

			It("overrides the file value", func() {
				cfg, err := Load(configFile)
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.Database.Host).To(Equal("envhost"))
			})
		})

		Context("when the file does not exist", func() {
			It("returns an error", func() {
				_, err := Load(filepath.Join(tempDir, "missing.yaml"))
				Expect(err).To(HaveOccurred())
			})
		})

		Context("when a required field is missing", func() {
			BeforeEach(func() {
				Expect(os.WriteFile(configFile, []byte("environment: production\n"), 0644)).To(Succeed())
			})

			It("rejects a production config without a storage bucket", func() {
				_, err := Load(configFile)
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("storage bucket"))
			})
		})
	})

	Describe("DefaultConfig", func() {
		It("returns sane baseline values", func() {
			cfg := DefaultConfig()
			Expect(cfg.Database.Port).To(Equal(5432))
			Expect(cfg.Cache.PortsTTL).To(Equal(10 * time.Minute))
			Expect(cfg.Cache.CompanyNamesTTL).To(Equal(5 * time.Minute))
		})
	})
})
