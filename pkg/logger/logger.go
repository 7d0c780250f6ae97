package logger

import (
	"os"
	"time"

	"dexflow/conf"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// 基于zap的全局日志，支持文件滚动和控制台双输出

var lg *zap.SugaredLogger

func init() {
	// 未初始化前使用开发配置兜底，避免空指针
	l, _ := zap.NewDevelopment(zap.AddCallerSkip(1))
	lg = l.Sugar()
}

// Pair 结构化日志的键值对
func Pair(key string, value interface{}) interface{} {
	return zap.Any(key, value)
}

// InitLogger 根据配置初始化全局logger
func InitLogger(cfg *conf.LogConfig, appName string) {
	encCfg := zap.NewProductionEncoderConfig()
	timeFormat := cfg.TimeFormat
	if timeFormat == "" {
		timeFormat = "2006-01-02 15:04:05.000"
	}
	encCfg.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.Format(timeFormat))
	}
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	level := zapcore.InfoLevel
	if err := level.Set(cfg.Level); err != nil {
		level = zapcore.InfoLevel
	}

	var cores []zapcore.Core
	if cfg.FileName != "" {
		w := zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.FileName,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
			LocalTime:  cfg.LocalTime,
		})
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), w, level))
	}
	if cfg.Console || cfg.FileName == "" {
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(encCfg),
			zapcore.AddSync(os.Stdout),
			level,
		))
	}

	core := zapcore.NewTee(cores...)
	l := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	if appName != "" {
		l = l.Named(appName)
	}
	lg = l.Sugar()
}

func Sync() {
	_ = lg.Sync()
}

func Debug(args ...interface{})                 { lg.Debug(args...) }
func Debugf(format string, args ...interface{}) { lg.Debugf(format, args...) }
func Info(args ...interface{})                  { lg.Info(args...) }
func Infof(format string, args ...interface{})  { lg.Infof(format, args...) }
func Warn(args ...interface{})                  { lg.Warn(args...) }
func Warnf(format string, args ...interface{})  { lg.Warnf(format, args...) }
func Error(args ...interface{})                 { lg.Error(args...) }
func Errorf(format string, args ...interface{}) { lg.Errorf(format, args...) }
func Fatal(args ...interface{})                 { lg.Fatal(args...) }
func Fatalf(format string, args ...interface{}) { lg.Fatalf(format, args...) }
