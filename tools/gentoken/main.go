package main

import (
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"time"

	"renew-admin/pkg/config"
	"renew-admin/pkg/jwt"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

func main() {
	newKey := flag.Bool("new-key", false, "只生成一个新的签名密钥")
	subject := flag.String("sub", "admin", "token 的 sub")
	ttl := flag.Duration("ttl", time.Hour, "token 有效期")
	flag.Parse()

	if *newKey {
		key, err := generateSecureKey(32)
		if err != nil {
			log.Fatal("生成JWT密钥失败:", err)
		}
		fmt.Println("请将以下密钥添加到您的 .env 文件中：")
		fmt.Printf("JWT_SIGNING_KEY=%s\n", key)
		return
	}

	if err := config.InitConfig(); err != nil {
		log.Fatalf("配置初始化失败: %v", err)
	}

	v := jwt.NewVerifierFromConfig(config.GetConfig().JWT)
	token, err := v.GenerateToken(jwtlib.MapClaims{"sub": *subject}, *ttl)
	if err != nil {
		log.Fatalf("签发token失败: %v", err)
	}
	fmt.Println(token)
}

// generateSecureKey 生成指定长度的安全密钥
func generateSecureKey(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
