// Package config загружает конфигурацию воркера.
//
// Порядок применения:
//
//  1. Значения по умолчанию (Default)
//  2. YAML-файл (--config, PAYSWEEP_CONFIG или configs/paysweep.yaml)
//  3. Переменные окружения (для локального запуска подхватывается .env)
//
// Секреты (client secret, DSN, URL брокера) ожидаются в окружении,
// а не в файле.
//
// Конфигурация загружается один раз при старте и дальше только читается.
package config
